package game

import "errors"

var (
	ErrNoSurface       = errors.New("game: no drawing surface")
	ErrNotOver         = errors.New("game: session is still running")
	ErrNoScoreService  = errors.New("game: no score service configured")
	ErrUnauthenticated = errors.New("game: sign in to save scores")
)
