package services

import "errors"

var (
	ErrUnauthenticated    = errors.New("no authenticated user")
	ErrInvalidScore       = errors.New("score must be non-negative and player name must not be blank")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)
