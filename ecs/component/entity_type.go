package component

// EntityType records which registered type an entity was spawned as.
type EntityType struct {
	Name string
}

var EntityTypeComponent = NewComponent[EntityType]()
