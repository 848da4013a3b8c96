package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

type Sphere struct {
	Center types.Vec3
	Radius float64

	radius2 float64
}

// Create a sphere primitive.
func NewSphere(center types.Vec3, radius float64, material *Material) (*Primitive, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: sphere radius must be positive; got %g", ErrInvalidGeometry, radius)
	}

	s := &Sphere{
		Center:  center,
		Radius:  radius,
		radius2: radius * radius,
	}

	return &Primitive{
		Type:     SpherePrimitive,
		BBox:     cubeBBox(center, radius),
		Material: material,
		Sphere:   s,
	}, nil
}

// Intersect using the geometric closest-approach method.
func (s *Sphere) intersect(ray types.Ray) (t float64, inside bool, hit bool) {
	oc := s.Center.Sub(ray.Origin)
	l2oc := oc.Dot(oc)
	tca := oc.Dot(ray.Dir)
	t2hc := s.radius2 - l2oc + tca*tca
	if t2hc < MinT {
		return 0, false, false
	}

	disc := math.Sqrt(t2hc)
	if l2oc > s.radius2+MinT {
		t = tca - disc
	} else {
		inside = true
		t = tca + disc
	}

	if t < MinT {
		return 0, false, false
	}
	return t, inside, true
}

func (s *Sphere) normal(ip types.Vec3) types.Vec3 {
	return ip.Sub(s.Center).Normalize()
}

// Get the axis aligned cube centered at c with half side r.
func cubeBBox(c types.Vec3, r float64) BBox {
	ext := types.XYZ(r, r, r)
	return BBox{c.Sub(ext), c.Add(ext)}
}
