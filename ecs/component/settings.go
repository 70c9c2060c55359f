package component

// Settings holds the values applied to an entity after the whole level has
// been spawned. Links maps settings keys that reference other entities to the
// referenced entity handle.
type Settings struct {
	Values map[string]any
	Links  map[string]uint64
}

var SettingsComponent = NewComponent[Settings]()
