package game

// PointerToSurface maps a screen-space y onto the surface, given the
// surface's on-screen top edge and height. ok is false when the mapping is
// undefined.
func PointerToSurface(clientY, rectTop, rectHeight float64) (y float64, ok bool) {
	if rectHeight <= 0 {
		return 0, false
	}
	return (clientY - rectTop) / rectHeight * SurfaceHeight, true
}

// MovePlayer sets the player's vertical centre, keeping the whole player
// on the surface.
func (s *State) MovePlayer(y float64) {
	const half = PlayerHeight / 2
	s.PlayerY = max(half, min(SurfaceHeight-half, y))
}
