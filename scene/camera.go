package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

// The ViewFrame holds the screen basis derived from the camera. Primary ray
// directions are generated by combining the horizontal and vertical basis
// vectors scaled by normalized screen offsets and adding the look vector.
type ViewFrame struct {
	Eye  types.Vec3
	Look types.Vec3
	Hor  types.Vec3
	Ver  types.Vec3

	// tan(fov) / sqrt(2)
	Scale float64

	// Size of a pixel in normalized [-1, 1] screen space.
	XStep float64
	YStep float64
}

func (fr ViewFrame) String() string {
	return fmt.Sprintf(
		"View frame:\nEye  : (%3.3f, %3.3f, %3.3f)\nLook : (%3.3f, %3.3f, %3.3f)\nHor  : (%3.3f, %3.3f, %3.3f)\nVer  : (%3.3f, %3.3f, %3.3f)\nScale: %3.5f",
		fr.Eye[0], fr.Eye[1], fr.Eye[2],
		fr.Look[0], fr.Look[1], fr.Look[2],
		fr.Hor[0], fr.Hor[1], fr.Hor[2],
		fr.Ver[0], fr.Ver[1], fr.Ver[2],
		fr.Scale,
	)
}

// Get the screen offsets for the top-left corner of pixel (x, y). Offsets
// decrease from 1 towards -1 as x and y grow.
func (fr ViewFrame) PixelOffset(x, y int) (xr, yr float64) {
	return 1 - fr.XStep*float64(x), 1 - fr.YStep*float64(y)
}

// Get the normalized ray direction through screen offset (xr, yr).
func (fr ViewFrame) Dir(xr, yr float64) types.Vec3 {
	return types.Comb(xr*fr.Scale, fr.Hor, yr*fr.Scale, fr.Ver).Add(fr.Look).Normalize()
}

// The camera type describes the observer.
type Camera struct {
	From   types.Vec3
	LookAt types.Vec3
	Up     types.Vec3

	// Field of view in degrees.
	Angle float64

	// Output resolution.
	XRes int
	YRes int
}

// Validate camera parameters.
func (c *Camera) Validate() error {
	if c.XRes <= 0 || c.YRes <= 0 {
		return fmt.Errorf("%w: resolution must be positive; got %dx%d", ErrInvalidViewpoint, c.XRes, c.YRes)
	}
	if c.LookAt == c.From {
		return fmt.Errorf("%w: eye and look-at point coincide", ErrInvalidViewpoint)
	}
	if c.Up.Len() == 0 {
		return fmt.Errorf("%w: up vector has zero length", ErrInvalidViewpoint)
	}
	look := c.LookAt.Sub(c.From).Normalize()
	if c.Up.Normalize().Cross(look).Len() < MinT {
		return fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidViewpoint)
	}
	return nil
}

// Calculate the view frame for this camera.
func (c *Camera) Frame() ViewFrame {
	look := c.LookAt.Sub(c.From).Normalize()
	up := c.Up.Normalize()
	hor := up.Cross(look).Normalize()
	ver := look.Cross(hor).Normalize()

	return ViewFrame{
		Eye:   c.From,
		Look:  look,
		Hor:   hor,
		Ver:   ver,
		Scale: math.Tan(c.Angle*math.Pi/180) / math.Sqrt(2.0),
		XStep: 2.0 / float64(c.XRes),
		YStep: 2.0 / float64(c.YRes),
	}
}
