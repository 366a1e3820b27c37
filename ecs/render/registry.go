// Package render caches the procedurally drawn sprites used by the render
// system.
package render

import "github.com/hajimehoshi/ebiten/v2"

var sprites = map[string]*ebiten.Image{}

// Sprite returns the image cached under key, drawing it with build on first
// use.
func Sprite(key string, build func() *ebiten.Image) *ebiten.Image {
	if img, ok := sprites[key]; ok {
		return img
	}
	img := build()
	if key != "" && img != nil {
		sprites[key] = img
	}
	return img
}

// Lookup reports whether key has been drawn already.
func Lookup(key string) (*ebiten.Image, bool) {
	img, ok := sprites[key]
	return img, ok
}

// Keys lists the cached sprite keys.
func Keys() []string {
	out := make([]string, 0, len(sprites))
	for k := range sprites {
		out = append(out, k)
	}
	return out
}

// Forget drops cached sprites so they are redrawn from fresh tuning.
func Forget(keys ...string) {
	for _, k := range keys {
		if img, ok := sprites[k]; ok {
			img.Deallocate()
			delete(sprites, k)
		}
	}
}
