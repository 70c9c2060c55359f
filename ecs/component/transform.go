package component

// Transform is the top-left position of a spawned entity in world pixels.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
