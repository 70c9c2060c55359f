// Package tilemap holds the tile planes a level is made of.
package tilemap

import (
	"errors"
	"image"
)

// MaxNameLen bounds Map.Name.
const MaxNameLen = 15

var ErrInvalidMap = errors.New("tilemap: invalid map")

// Image is the tileset image handle a map draws from. Both *ebiten.Image and
// decoded image.Image values satisfy it.
type Image interface {
	Bounds() image.Rectangle
}

// ImageLoader loads a tileset image by asset path.
type ImageLoader interface {
	LoadImage(path string) (Image, error)
}

// Size is a map size in tiles.
type Size struct {
	W int
	H int
}

// Map is one tile plane of a level: a background layer, a foreground layer or
// the collision map.
type Map struct {
	Name       string
	Size       Size
	TileSize   int
	Distance   float64
	Foreground bool
	Repeat     bool

	// Data holds tile indices in row-major order. 0 is an empty cell; every
	// other value is a 1-based index into Tileset.
	Data []uint16

	Tileset     Image
	TilesetPath string
}

// New allocates an empty map of the given size with no parallax.
func New(w, h, tileSize int) *Map {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Map{
		Size:     Size{W: w, H: h},
		TileSize: tileSize,
		Distance: 1,
		Data:     make([]uint16, w*h),
	}
}

// At returns the tile at (x, y), or 0 outside the map.
func (m *Map) At(x, y int) uint16 {
	if m == nil || x < 0 || y < 0 || x >= m.Size.W || y >= m.Size.H {
		return 0
	}
	idx := y*m.Size.W + x
	if idx >= len(m.Data) {
		return 0
	}
	return m.Data[idx]
}

// Solid reports whether the cell at (x, y) is non-empty.
func (m *Map) Solid(x, y int) bool {
	return m.At(x, y) != 0
}

// HasTileset reports whether a tileset image was resolved for the map.
func (m *Map) HasTileset() bool {
	return m != nil && m.Tileset != nil
}

// PixelSize returns the map extent in pixels.
func (m *Map) PixelSize() (w, h int) {
	if m == nil {
		return 0, 0
	}
	return m.Size.W * m.TileSize, m.Size.H * m.TileSize
}
