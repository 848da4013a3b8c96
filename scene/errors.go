package scene

import "errors"

var (
	ErrTooManyObjects   = errors.New("scene: too many objects")
	ErrTooManyLights    = errors.New("scene: too many light sources")
	ErrNoLights         = errors.New("scene: no light sources were specified")
	ErrNoObjects        = errors.New("scene: no objects were specified")
	ErrNoMaterial       = errors.New("scene: no material assigned to primitive")
	ErrUnknownMaterial  = errors.New("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive")
	ErrInvalidGeometry  = errors.New("scene: invalid primitive geometry")
	ErrInvalidViewpoint = errors.New("scene: invalid camera definition")
)
