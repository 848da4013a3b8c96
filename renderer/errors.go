package renderer

import "errors"

var (
	ErrSceneNotDefined = errors.New("renderer: no scene defined")
	ErrInvalidOptions  = errors.New("renderer: invalid options")
	ErrInterrupted     = errors.New("renderer: interrupted while rendering")
)
