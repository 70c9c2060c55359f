// Package gpu uploads tileset images to the GPU for windowed builds.
package gpu

import (
	"image"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/levelkit/render"
	"github.com/milk9111/levelkit/tilemap"
)

// Upload returns decoded images as *ebiten.Image.
func Upload(im image.Image) tilemap.Image {
	return ebiten.NewImageFromImage(im)
}

// NewLoader returns an image loader that uploads every decoded image with
// Upload. Cached images are deallocated when the cache is reset.
func NewLoader(fsys fs.FS, cache *render.Cache) *render.Loader {
	return render.NewLoader(fsys, cache, Upload)
}
