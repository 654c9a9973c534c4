// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"image"
)

// Position addresses one hourly record by its day bucket and its index inside the bucket
type Position struct {
	Bucket int
	Item   int
}

func (p Position) String() string {
	return fmt.Sprintf("%d/%d", p.Bucket, p.Item)
}

// Cache holds the decoded icons and the tint decisions per position. It is not safe for concurrent
// use; all access has to happen from the goroutine that owns the derived forecast state.
type Cache struct {
	images     map[Position]image.Image
	tints      map[Position]Tint
	generation uint64
}

func NewCache() *Cache {
	return &Cache{
		images: make(map[Position]image.Image),
		tints:  make(map[Position]Tint),
	}
}

// Clear drops all images and tints and starts a new cache generation
func (c *Cache) Clear() {
	clear(c.images)
	clear(c.tints)
	c.generation++
}

// Generation identifies the current cache contents. It changes on every Clear.
func (c *Cache) Generation() uint64 {
	return c.generation
}

func (c *Cache) Image(pos Position) (image.Image, bool) {
	img, ok := c.images[pos]
	return img, ok
}

// StoreImage caches img for pos if the cache is still at the given generation. It reports whether
// the image was stored.
func (c *Cache) StoreImage(generation uint64, pos Position, img image.Image) bool {
	if generation != c.generation || img == nil {
		return false
	}
	c.images[pos] = img
	return true
}

func (c *Cache) Tint(pos Position) (Tint, bool) {
	tint, ok := c.tints[pos]
	return tint, ok
}

func (c *Cache) StoreTint(pos Position, tint Tint) {
	c.tints[pos] = tint
}

// Len returns the number of cached images and tints
func (c *Cache) Len() (images, tints int) {
	return len(c.images), len(c.tints)
}
