package level

import (
	"github.com/milk9111/levelkit/tilemap"
)

// Tiled editor export.

type TiledProject struct {
	TileWidth  int               `json:"tilewidth"`
	TileHeight int               `json:"tileheight"`
	Tilesets   []TiledTilesetRef `json:"tilesets"`
	Layers     []TiledLayer      `json:"layers"`
}

// TiledTilesetRef points at an external tileset file, relative to the
// project directory.
type TiledTilesetRef struct {
	FirstGID int    `json:"firstgid"`
	Source   string `json:"source"`
}

// TiledTileset is an external tileset file (.tsj).
type TiledTileset struct {
	TileCount  int    `json:"tilecount"`
	TileWidth  int    `json:"tilewidth"`
	TileHeight int    `json:"tileheight"`
	Image      string `json:"image"`
}

type TiledLayer struct {
	Name       *string         `json:"name"`
	Type       *string         `json:"type"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	ParallaxX  *float64        `json:"parallaxx"`
	ParallaxY  *float64        `json:"parallaxy"`
	Properties []TiledProperty `json:"properties"`
	Data       []float64       `json:"data"`
	Objects    []TiledObject   `json:"objects"`
}

func (l *TiledLayer) name() string {
	if l.Name == nil {
		return ""
	}
	return *l.Name
}

func (l *TiledLayer) kind() string {
	if l.Type == nil {
		return ""
	}
	return *l.Type
}

type TiledObject struct {
	ID         *float64        `json:"id"`
	Type       string          `json:"type"`
	Class      string          `json:"class"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Properties []TiledProperty `json:"properties"`
}

// TypeName returns the object's entity type. Tiled 1.9 renamed "type" to
// "class"; both are accepted.
func (o *TiledObject) TypeName() string {
	if o.Type != "" {
		return o.Type
	}
	return o.Class
}

type TiledProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

const (
	LayerTypeTile   = "tilelayer"
	LayerTypeObject = "objectgroup"
)

// Native level format.

type NativeLevel struct {
	Maps     []tilemap.NativeMap `json:"maps"`
	Entities []NativeEntity      `json:"entities"`
}

type NativeEntity struct {
	Type     string   `json:"type"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	ID       *float64 `json:"id"`
	Settings any      `json:"settings"`
}
