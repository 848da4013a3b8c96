package scene

import (
	"fmt"

	"github.com/achilleasa/rt/types"
)

// Intersection distances at or below this threshold are treated as misses.
// The same value guards near-parallel and near-tangent configurations.
const MinT = 1e-12

type PrimitiveType uint8

const (
	SpherePrimitive PrimitiveType = iota
	HollowSpherePrimitive
	ConePrimitive
	PolygonPrimitive
	RingPrimitive
	QuadricPrimitive

	numPrimitiveTypes
)

func (t PrimitiveType) String() string {
	switch t {
	case SpherePrimitive:
		return "sphere"
	case HollowSpherePrimitive:
		return "hsphere"
	case ConePrimitive:
		return "cone"
	case PolygonPrimitive:
		return "polygon"
	case RingPrimitive:
		return "ring"
	case QuadricPrimitive:
		return "quadric"
	}
	return fmt.Sprintf("primitive(%d)", uint8(t))
}

// The result of a successful ray/primitive query.
type Intersection struct {
	Primitive *Primitive

	// Parametric distance along the ray; always > MinT.
	T float64

	// True if the ray origin lies inside the hit solid.
	Inside bool
}

// Defines a scene primitive. Exactly one of the geometry payloads is set
// and it always matches Type.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	// The primitive bounding box.
	BBox BBox

	// The primitive material. Must be added to the scene before the primitive.
	Material *Material

	Sphere       *Sphere
	HollowSphere *HollowSphere
	Cone         *Cone
	Polygon      *Polygon
	Ring         *Ring
	Quadric      *Quadric
}

// Intersect the primitive with a ray whose direction is normalized.
func (p *Primitive) Intersect(ray types.Ray) (Intersection, bool) {
	var (
		t      float64
		inside bool
		hit    bool
	)

	switch p.Type {
	case SpherePrimitive:
		t, inside, hit = p.Sphere.intersect(ray)
	case HollowSpherePrimitive:
		t, inside, hit = p.HollowSphere.intersect(ray)
	case ConePrimitive:
		t, inside, hit = p.Cone.intersect(ray)
	case PolygonPrimitive:
		t, inside, hit = p.Polygon.intersect(ray)
	case RingPrimitive:
		t, inside, hit = p.Ring.intersect(ray)
	case QuadricPrimitive:
		t, inside, hit = p.Quadric.intersect(ray)
	}

	if !hit {
		return Intersection{}, false
	}
	return Intersection{Primitive: p, T: t, Inside: inside}, true
}

// Get the surface normal at point ip. The returned normal always faces
// against the incoming ray direction.
func (p *Primitive) Normal(ray types.Ray, ip types.Vec3) types.Vec3 {
	var n types.Vec3

	switch p.Type {
	case SpherePrimitive:
		n = p.Sphere.normal(ip)
	case HollowSpherePrimitive:
		n = p.HollowSphere.normal(ip)
	case ConePrimitive:
		n = p.Cone.normal(ip)
	case PolygonPrimitive:
		n = p.Polygon.normal
	case RingPrimitive:
		n = p.Ring.normal
	case QuadricPrimitive:
		n = p.Quadric.normal(ip)
	}

	if ray.Dir.Dot(n) >= 0 {
		n = n.Neg()
	}
	return n
}

// Create a copy of this primitive moved by offset and bound to material.
func (p *Primitive) Translated(offset types.Vec3, material *Material) (*Primitive, error) {
	switch p.Type {
	case SpherePrimitive:
		s := p.Sphere
		return NewSphere(s.Center.Add(offset), s.Radius, material)
	case HollowSpherePrimitive:
		s := p.HollowSphere
		return NewHollowSphere(s.Center.Add(offset), s.Radius, s.Radius-s.InnerRadius, material)
	case ConePrimitive:
		c := p.Cone
		return NewCone(c.Base.Add(offset), c.BaseRadius, c.Apex.Add(offset), c.ApexRadius, material)
	case PolygonPrimitive:
		points := make([]types.Vec3, len(p.Polygon.Points))
		for i, pt := range p.Polygon.Points {
			points[i] = pt.Add(offset)
		}
		return NewPolygon(points, material)
	case RingPrimitive:
		r := p.Ring
		return NewRing(r.Center.Add(offset), r.Point1.Add(offset), r.Point2.Add(offset), r.OuterRadius, r.InnerRadius, material)
	case QuadricPrimitive:
		q := *p.Quadric
		q.Loc = q.Loc.Add(offset)
		q.Min = q.Min.Add(offset)
		q.Max = q.Max.Add(offset)
		return NewQuadric(q, material)
	}
	return nil, fmt.Errorf("scene: cannot translate unknown primitive type %d", p.Type)
}
