package component

// Name is the identifier other entities use to reference this one from their
// settings.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
