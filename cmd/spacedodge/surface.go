package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// imageSurface draws game frames into an offscreen image that Draw copies
// to the screen.
type imageSurface struct {
	img *ebiten.Image
}

func newImageSurface(w, h int) *imageSurface {
	return &imageSurface{img: ebiten.NewImage(w, h)}
}

func (s *imageSurface) Clear() {
	s.img.Clear()
}

func (s *imageSurface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c, false)
}
