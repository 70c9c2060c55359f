// Package render owns the tileset images levels draw from: decoding, upload
// and a cache that is reclaimed in bulk when the scene changes.
package render

import (
	"github.com/milk9111/levelkit/tilemap"
)

type deallocator interface {
	Deallocate()
}

// Cache stores images by asset path in load order.
type Cache struct {
	images map[string]tilemap.Image
	order  []string
}

func NewCache() *Cache {
	return &Cache{images: map[string]tilemap.Image{}}
}

// Register stores an image by key. Re-registering a key replaces the image
// but keeps its original position.
func (c *Cache) Register(key string, img tilemap.Image) {
	if c == nil || key == "" || img == nil {
		return
	}
	if _, ok := c.images[key]; !ok {
		c.order = append(c.order, key)
	}
	c.images[key] = img
}

// Get returns a cached image by key.
func (c *Cache) Get(key string) (tilemap.Image, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	img, ok := c.images[key]
	return img, ok
}

// Mark returns the current cache position for a later Reset.
func (c *Cache) Mark() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Reset drops every image registered after m, deallocating GPU images.
func (c *Cache) Reset(m int) {
	if c == nil || m >= len(c.order) {
		return
	}
	if m < 0 {
		m = 0
	}
	for i := len(c.order) - 1; i >= m; i-- {
		key := c.order[i]
		if d, ok := c.images[key].(deallocator); ok {
			d.Deallocate()
		}
		delete(c.images, key)
	}
	c.order = c.order[:m]
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Keys returns the cached keys in load order.
func (c *Cache) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}
