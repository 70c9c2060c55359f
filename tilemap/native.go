package tilemap

import (
	"fmt"
	"math"
)

// NativeMap is one entry of the native level format's "maps" array.
type NativeMap struct {
	Name        string      `json:"name"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TileSize    int         `json:"tilesize"`
	Distance    *float64    `json:"distance,omitempty"`
	Repeat      bool        `json:"repeat"`
	Foreground  bool        `json:"foreground"`
	TilesetName string      `json:"tilesetName"`
	Data        [][]float64 `json:"data"`
}

// FromNative builds a map from its native definition, loading the tileset
// image through images when one is named.
func FromNative(def NativeMap, images ImageLoader) (*Map, error) {
	if len(def.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: name %q exceeds %d chars", ErrInvalidMap, def.Name, MaxNameLen)
	}
	if def.Width <= 0 || def.Height <= 0 {
		return nil, fmt.Errorf("%w: %q has invalid size %dx%d", ErrInvalidMap, def.Name, def.Width, def.Height)
	}

	m := New(def.Width, def.Height, def.TileSize)
	m.Name = def.Name
	m.Repeat = def.Repeat
	m.Foreground = def.Foreground
	if def.Distance != nil {
		if *def.Distance == 0 {
			return nil, fmt.Errorf("%w: %q has distance 0", ErrInvalidMap, def.Name)
		}
		m.Distance = *def.Distance
	}

	if len(def.Data) != def.Height {
		return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrInvalidMap, def.Name, len(def.Data), def.Height)
	}
	for y, row := range def.Data {
		if len(row) != def.Width {
			return nil, fmt.Errorf("%w: %q row %d has %d tiles, want %d", ErrInvalidMap, def.Name, y, len(row), def.Width)
		}
		for x, raw := range row {
			tile, ok := TileID(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %q tile %v at %d,%d out of range", ErrInvalidMap, def.Name, raw, x, y)
			}
			m.Data[y*def.Width+x] = tile
		}
	}

	if def.TilesetName != "" {
		if images == nil {
			return nil, fmt.Errorf("%w: %q names tileset %q but no image loader is set", ErrInvalidMap, def.Name, def.TilesetName)
		}
		img, err := images.LoadImage(def.TilesetName)
		if err != nil {
			return nil, fmt.Errorf("tilemap: load tileset %q: %w", def.TilesetName, err)
		}
		m.Tileset = img
		m.TilesetPath = def.TilesetName
	}
	return m, nil
}

// TileID converts a JSON number to a tile index. Fractions are truncated;
// values outside the unsigned 16-bit range are rejected.
func TileID(raw float64) (uint16, bool) {
	if math.IsNaN(raw) || raw < 0 || raw > math.MaxUint16 {
		return 0, false
	}
	return uint16(raw), true
}
