// Package collision bakes a level's collision map into static chipmunk
// shapes. Runs of solid tiles are merged into as few rectangles as possible.
package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelkit/tilemap"
)

// Rect is a block of solid tiles, in tile units.
type Rect struct {
	X, Y int
	W, H int
}

// Rects merges the solid tiles of m into rectangles, scanning rows top to
// bottom: each rectangle is as wide as the run it starts on and grows down
// while the rows below are solid across the same span.
func Rects(m *tilemap.Map) []Rect {
	if m == nil || m.Size.W <= 0 || m.Size.H <= 0 {
		return nil
	}
	width, height := m.Size.W, m.Size.H
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	solid := func(x, y int) bool { return !visited[index(x, y)] && m.Solid(x, y) }

	var out []Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && solid(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !solid(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, Rect{X: x, Y: y, W: maxW, H: maxH})
		}
	}
	return out
}

type Options struct {
	Friction   float64
	Elasticity float64
	// CollisionType tags every baked shape for collision handlers.
	CollisionType cp.CollisionType
}

// DefaultOptions matches the friction of the game's static tiles.
func DefaultOptions() Options {
	return Options{Friction: 0.9}
}

// Static is a collision map baked into a space.
type Static struct {
	Space    *cp.Space
	Shapes   []*cp.Shape
	Rects    []Rect
	TileSize float64
}

// BuildSpace adds one static box per merged rectangle of m to space, creating
// a space when it is nil.
func BuildSpace(space *cp.Space, m *tilemap.Map, opts Options) *Static {
	if space == nil {
		space = cp.NewSpace()
	}
	s := &Static{Space: space, Rects: Rects(m)}
	if m == nil {
		return s
	}
	s.TileSize = float64(m.TileSize)

	s.Shapes = make([]*cp.Shape, 0, len(s.Rects))
	for _, r := range s.Rects {
		bb := cp.BB{
			L: float64(r.X) * s.TileSize,
			B: float64(r.Y) * s.TileSize,
			R: float64(r.X+r.W) * s.TileSize,
			T: float64(r.Y+r.H) * s.TileSize,
		}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(opts.Friction)
		shape.SetElasticity(opts.Elasticity)
		shape.SetCollisionType(opts.CollisionType)
		space.AddShape(shape)
		s.Shapes = append(s.Shapes, shape)
	}
	return s
}

// SolidAt reports whether the world point (x, y) is inside a baked shape.
func (s *Static) SolidAt(x, y float64) bool {
	if s == nil || s.Space == nil || len(s.Shapes) == 0 {
		return false
	}
	info := s.Space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	return info != nil && info.Shape != nil && info.Distance < 0
}

// Release removes the baked shapes from the space. It lets a Static be kept
// in a scene arena.
func (s *Static) Release() {
	if s == nil || s.Space == nil {
		return
	}
	for _, shape := range s.Shapes {
		s.Space.RemoveShape(shape)
	}
	s.Shapes = nil
}
