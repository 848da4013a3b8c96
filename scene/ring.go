package scene

import (
	"fmt"

	"github.com/achilleasa/rt/types"
)

// A flat annulus. The plane is spanned by the two points relative to the
// center; hits must fall between the inner and outer radius.
type Ring struct {
	Center      types.Vec3
	Point1      types.Vec3
	Point2      types.Vec3
	OuterRadius float64
	InnerRadius float64

	normal       types.Vec3
	d            float64
	outerRadius2 float64
	innerRadius2 float64
}

// Create a ring primitive.
func NewRing(center, point1, point2 types.Vec3, outerRadius, innerRadius float64, material *Material) (*Primitive, error) {
	if innerRadius < 0 || outerRadius < innerRadius {
		return nil, fmt.Errorf("%w: ring radii must satisfy 0 <= inner <= outer; got inner %g, outer %g", ErrInvalidGeometry, innerRadius, outerRadius)
	}

	normal, l := point1.Sub(center).Cross(point2.Sub(center)).NormalizeLen()
	if l == 0 {
		return nil, fmt.Errorf("%w: ring points do not span a plane", ErrInvalidGeometry)
	}

	r := &Ring{
		Center:       center,
		Point1:       point1,
		Point2:       point2,
		OuterRadius:  outerRadius,
		InnerRadius:  innerRadius,
		normal:       normal,
		d:            -normal.Dot(center),
		outerRadius2: outerRadius * outerRadius,
		innerRadius2: innerRadius * innerRadius,
	}

	return &Primitive{
		Type:     RingPrimitive,
		BBox:     cubeBBox(center, outerRadius),
		Material: material,
		Ring:     r,
	}, nil
}

func (r *Ring) intersect(ray types.Ray) (float64, bool, bool) {
	t, ok := planeHit(ray, r.normal, r.d)
	if !ok {
		return 0, false, false
	}

	tp := r.Center.Sub(ray.At(t))
	dist2 := tp.Dot(tp)
	if dist2 < r.innerRadius2 || dist2 > r.outerRadius2 {
		return 0, false, false
	}
	return t, false, true
}
