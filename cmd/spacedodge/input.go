package main

import (
	"spacedodge/game"

	"github.com/hajimehoshi/ebiten/v2"
)

// pointerInput polls the cursor and touches once per tick and forwards them
// as pointer events. Coordinates are already in layout space, so the surface
// rect is the whole layout.
type pointerInput struct {
	listener func(game.PointerEvent)
	lastX    int
	lastY    int
	touches  []ebiten.TouchID
}

func (p *pointerInput) Listen(fn func(game.PointerEvent)) func() {
	p.listener = fn
	return func() { p.listener = nil }
}

func (p *pointerInput) poll() {
	if p.listener == nil {
		return
	}

	p.touches = ebiten.AppendTouchIDs(p.touches[:0])
	if len(p.touches) > 0 {
		_, y := ebiten.TouchPosition(p.touches[0])
		p.emit(y)
		return
	}

	x, y := ebiten.CursorPosition()
	if x == p.lastX && y == p.lastY {
		return
	}
	p.lastX, p.lastY = x, y
	p.emit(y)
}

func (p *pointerInput) emit(y int) {
	p.listener(game.PointerEvent{
		ClientY:    float64(y),
		RectTop:    0,
		RectHeight: game.SurfaceHeight,
	})
}
