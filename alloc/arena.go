package alloc

// Releaser is implemented by arena-owned values that hold resources outside
// the Go heap (GPU images, physics spaces).
type Releaser interface {
	Release()
}

// Mark is a checkpoint in an Arena.
type Mark int

// Arena keeps scene-lifetime values reachable until they are reclaimed in bulk
// by Reset. Nothing is freed individually.
type Arena struct {
	items []any
}

func NewArena() *Arena {
	return &Arena{}
}

// Keep adds v to the arena and returns it.
func (a *Arena) Keep(v any) any {
	if a == nil || v == nil {
		return v
	}
	a.items = append(a.items, v)
	return v
}

// Mark returns a checkpoint for Reset.
func (a *Arena) Mark() Mark {
	if a == nil {
		return 0
	}
	return Mark(len(a.items))
}

// Reset drops every value kept after m, newest first, releasing those that
// implement Releaser.
func (a *Arena) Reset(m Mark) {
	if a == nil || int(m) >= len(a.items) {
		return
	}
	if m < 0 {
		m = 0
	}
	for i := len(a.items) - 1; i >= int(m); i-- {
		if r, ok := a.items[i].(Releaser); ok {
			r.Release()
		}
		a.items[i] = nil
	}
	a.items = a.items[:m]
}

// Len returns the number of kept values.
func (a *Arena) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}
