package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"github.com/milk9111/levelkit/tilemap"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Upload turns a decoded image into the handle maps draw from.
type Upload func(image.Image) tilemap.Image

// Loader decodes images from an asset file system and caches them by path.
type Loader struct {
	fsys   fs.FS
	cache  *Cache
	upload Upload
}

// NewLoader returns a loader passing every decoded image through upload. A
// nil upload keeps the decoded image.
func NewLoader(fsys fs.FS, cache *Cache, upload Upload) *Loader {
	if upload == nil {
		upload = func(im image.Image) tilemap.Image { return im }
	}
	return &Loader{fsys: fsys, cache: cache, upload: upload}
}

// NewDecodeLoader returns a loader that keeps decoded images in memory. Tools
// that never open a window use it.
func NewDecodeLoader(fsys fs.FS, cache *Cache) *Loader {
	return NewLoader(fsys, cache, nil)
}

// LoadImage loads an image by asset path, returning the cached copy when there
// is one.
func (l *Loader) LoadImage(p string) (tilemap.Image, error) {
	if p == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	key := strings.TrimPrefix(path.Clean(p), "/")
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}
	if l.fsys == nil {
		return nil, fmt.Errorf("render: load %s: %w", key, fs.ErrNotExist)
	}

	b, err := fs.ReadFile(l.fsys, key)
	if err != nil {
		return nil, fmt.Errorf("render: load %s: %w", key, err)
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", key, err)
	}

	img := l.upload(im)
	l.cache.Register(key, img)
	return img, nil
}

func (l *Loader) Cache() *Cache {
	return l.cache
}
