package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

// A sphere with a spherical cavity sharing its center. Rays may hit either
// the outer or the inner wall; the inner wall reports inverted inside-ness
// since its interior is empty space.
type HollowSphere struct {
	Center      types.Vec3
	Radius      float64
	InnerRadius float64

	radius2      float64
	innerRadius2 float64
}

// Create a hollow sphere whose wall has the given thickness.
func NewHollowSphere(center types.Vec3, radius, thickness float64, material *Material) (*Primitive, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: hollow sphere radius must be positive; got %g", ErrInvalidGeometry, radius)
	}
	if thickness < 0 || thickness > radius {
		return nil, fmt.Errorf("%w: hollow sphere thickness must be in [0, %g]; got %g", ErrInvalidGeometry, radius, thickness)
	}

	inner := radius - thickness
	s := &HollowSphere{
		Center:       center,
		Radius:       radius,
		InnerRadius:  inner,
		radius2:      radius * radius,
		innerRadius2: inner * inner,
	}

	return &Primitive{
		Type:         HollowSpherePrimitive,
		BBox:         cubeBBox(center, radius),
		Material:     material,
		HollowSphere: s,
	}, nil
}

func (s *HollowSphere) intersect(ray types.Ray) (float64, bool, bool) {
	oc := s.Center.Sub(ray.Origin)
	l2oc := oc.Dot(oc)
	tca := oc.Dot(ray.Dir)
	t2hc := s.radius2 - l2oc + tca*tca
	iT2hc := s.innerRadius2 - l2oc + tca*tca

	hitOuter := t2hc >= MinT
	hitInner := iT2hc >= MinT

	var (
		t, iT               float64
		inside, innerInside bool
	)

	if hitOuter {
		disc := math.Sqrt(t2hc)
		if l2oc > s.radius2+MinT {
			t = tca - disc
		} else {
			inside = true
			t = tca + disc
		}
	}

	if hitInner {
		iDisc := math.Sqrt(iT2hc)
		if l2oc > s.innerRadius2+MinT {
			innerInside = true
			iT = tca - iDisc
		} else {
			iT = tca + iDisc
		}
	}

	switch {
	case hitOuter && hitInner:
		outerOK := t >= MinT
		innerOK := iT >= MinT
		switch {
		case !outerOK && !innerOK:
			return 0, false, false
		case !outerOK:
			return iT, innerInside, true
		case !innerOK:
			return t, inside, true
		case iT < t-MinT:
			return iT, innerInside, true
		}
		return t, inside, true
	case hitOuter:
		if t < MinT {
			return 0, false, false
		}
		return t, inside, true
	case hitInner:
		if iT < MinT {
			return 0, false, false
		}
		return iT, innerInside, true
	}

	return 0, false, false
}

func (s *HollowSphere) normal(ip types.Vec3) types.Vec3 {
	return ip.Sub(s.Center).Normalize()
}
