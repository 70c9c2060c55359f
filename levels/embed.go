// Package levels embeds the sample levels: a native level and a Tiled
// project sharing one tileset image.
package levels

import (
	"embed"
	"io/fs"
)

//go:embed sample.json demo media
var LevelsFS embed.FS

const (
	Sample    = "sample.json"
	DemoTiled = "demo/demo.tmj"
	DemoDir   = "demo"
	DemoImage = "media/tiles.qoi"
)

// FS returns the embedded levels as an asset file system.
func FS() fs.FS {
	return LevelsFS
}
