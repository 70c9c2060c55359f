package component

// Size is the entity's bounding box in pixels, taken from its type spec.
type Size struct {
	W float64
	H float64
}

var SizeComponent = NewComponent[Size]()
