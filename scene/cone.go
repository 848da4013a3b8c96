package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

// A truncated cone (frustum) between a base and an apex disc. Intersections
// are computed in a local frame where w runs along the cone axis and u, v
// span the base plane.
type Cone struct {
	Base       types.Vec3
	BaseRadius float64
	Apex       types.Vec3
	ApexRadius float64

	w, u, v types.Vec3
	height  float64
	slope   float64
	baseD   float64

	// Valid range for w·p; hits outside it lie past the end caps.
	minD float64
	maxD float64
}

// Create a cone primitive.
func NewCone(base types.Vec3, baseRadius float64, apex types.Vec3, apexRadius float64, material *Material) (*Primitive, error) {
	if baseRadius < 0 || apexRadius < 0 {
		return nil, fmt.Errorf("%w: cone radii must not be negative; got %g and %g", ErrInvalidGeometry, baseRadius, apexRadius)
	}

	w, height := apex.Sub(base).NormalizeLen()
	if height < MinT {
		return nil, fmt.Errorf("%w: cone base and apex coincide", ErrInvalidGeometry)
	}

	c := &Cone{
		Base:       base,
		BaseRadius: baseRadius,
		Apex:       apex,
		ApexRadius: apexRadius,
		w:          w,
		height:     height,
		slope:      (apexRadius - baseRadius) / height,
		baseD:      -base.Dot(w),
	}

	// Pick a helper vector that is not parallel to the axis. The fallback
	// keeps the z component which still yields a valid frame.
	tmp := types.XYZ(0, 0, 1)
	if 1.0-math.Abs(tmp.Dot(w)) < MinT {
		tmp[types.Y] = 1
		tmp[types.X] = 0
	}
	c.u = w.Cross(tmp)
	c.v = c.u.Cross(w).Normalize()
	c.u = c.u.Normalize()

	c.minD = w.Dot(base)
	c.maxD = w.Dot(apex)
	if c.maxD < c.minD {
		c.minD, c.maxD = c.maxD, c.minD
	}

	bbox := EmptyBBox()
	for _, disc := range [2]struct {
		center types.Vec3
		radius float64
	}{{base, baseRadius}, {apex, apexRadius}} {
		ext := types.XYZ(disc.radius, disc.radius, disc.radius)
		bbox = bbox.Extend(disc.center.Sub(ext)).Extend(disc.center.Add(ext))
	}

	return &Primitive{
		Type:     ConePrimitive,
		BBox:     bbox,
		Material: material,
		Cone:     c,
	}, nil
}

func (c *Cone) intersect(ray types.Ray) (float64, bool, bool) {
	// Move ray into the cone frame
	rel := ray.Origin.Sub(c.Base)
	px, py, pz := rel.Dot(c.u), rel.Dot(c.v), rel.Dot(c.w)
	dx, dy, dz := ray.Dir.Dot(c.u), ray.Dir.Dot(c.v), ray.Dir.Dot(c.w)

	s2 := c.slope * c.slope
	a := dx*dx + dy*dy - s2*dz*dz
	b := 2.0 * (px*dx + py*dy - s2*pz*dz - c.BaseRadius*c.slope*dz)
	r := c.slope*pz + c.BaseRadius
	cc := px*px + py*py - r*r

	disc := b*b - 4.0*a*cc
	if disc < 0 {
		return 0, false, false
	}

	disc = math.Sqrt(disc)
	t1 := (-b - disc) / (2.0 * a)
	t2 := (-b + disc) / (2.0 * a)

	// A ray steeper than the cone wall yields a < 0 which flips the roots
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t2 < MinT {
		return 0, false, false
	}

	// Single root ahead of the origin; the origin is inside the surface
	if t1 < MinT {
		if c.withinCaps(ray.At(t2)) {
			return t2, true, true
		}
		return 0, false, false
	}

	if c.withinCaps(ray.At(t1)) {
		return t1, false, true
	}
	if c.withinCaps(ray.At(t2)) {
		return t2, true, true
	}
	return 0, false, false
}

func (c *Cone) withinCaps(p types.Vec3) bool {
	d := c.w.Dot(p)
	return d >= c.minD && d <= c.maxD
}

func (c *Cone) normal(ip types.Vec3) types.Vec3 {
	// Project ip onto the base plane; the radial direction from the base
	// center tilted by the slope gives the surface normal.
	t := -(ip.Dot(c.w) + c.baseD)
	n := ip.AddScaled(t, c.w).Sub(c.Base).Normalize()
	return n.AddScaled(-c.slope, c.w).Normalize()
}
