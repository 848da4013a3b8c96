package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

// A planar polygon with at least 3 vertices. The plane is derived from the
// first three vertices; remaining vertices are assumed to be coplanar.
type Polygon struct {
	Points []types.Vec3

	normal types.Vec3
	d      float64

	// The two axes the polygon is projected on for the inside test.
	axis1, axis2 int
}

// Create a polygon primitive. The points slice is copied.
func NewPolygon(points []types.Vec3, material *Material) (*Primitive, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 points; got %d", ErrInvalidGeometry, len(points))
	}

	p := &Polygon{
		Points: append([]types.Vec3(nil), points...),
	}

	normal, l := points[1].Sub(points[0]).Cross(points[2].Sub(points[0])).NormalizeLen()
	if l == 0 {
		return nil, fmt.Errorf("%w: first three polygon points are collinear", ErrInvalidGeometry)
	}
	p.normal = normal
	p.d = -normal.Dot(points[0])
	p.axis1, p.axis2 = projectionAxes(normal)

	bbox := EmptyBBox()
	for _, pt := range p.Points {
		bbox = bbox.Extend(pt)
	}

	return &Primitive{
		Type:     PolygonPrimitive,
		BBox:     bbox,
		Material: material,
		Polygon:  p,
	}, nil
}

// Get the two axes orthogonal to the dominant component of n.
func projectionAxes(n types.Vec3) (int, int) {
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	switch {
	case ax > ay && ax > az:
		return types.Y, types.Z
	case ay > ax && ay > az:
		return types.X, types.Z
	}
	return types.X, types.Y
}

// Intersect the supporting plane and then count the polygon edges crossed
// by a half-line leaving the hit point along +axis1.
func (p *Polygon) intersect(ray types.Ray) (float64, bool, bool) {
	t, ok := planeHit(ray, p.normal, p.d)
	if !ok {
		return 0, false, false
	}

	ip := ray.At(t)
	n1, n2 := p.axis1, p.axis2
	crossings := 0
	for i := range p.Points {
		pi := p.Points[i]
		pj := p.Points[(i+1)%len(p.Points)]

		// Ignore edges parallel to the half-line
		if pi[n2] == pj[n2] {
			continue
		}

		if (pi[n2] < ip[n2]) == (pj[n2] < ip[n2]) {
			continue
		}

		ri := pi[n1] < ip[n1]
		rj := pj[n1] < ip[n1]
		if ri && rj {
			crossings++
			continue
		}
		if !ri && !rj {
			continue
		}

		m := (pj[n2] - pi[n2]) / (pj[n1] - pi[n1])
		b := (pj[n2] - ip[n2]) - m*(pj[n1]-ip[n1])
		if -b/m < MinT {
			crossings++
		}
	}

	if crossings%2 == 0 {
		return 0, false, false
	}
	return t, false, true
}

// Intersect a ray with the plane n·x + d = 0.
func planeHit(ray types.Ray, n types.Vec3, d float64) (float64, bool) {
	vd := ray.Dir.Dot(n)
	if math.Abs(vd) < MinT {
		return 0, false
	}

	t := -(ray.Origin.Dot(n) + d) / vd
	if t < MinT {
		return 0, false
	}
	return t, true
}
