package scene

import (
	"math"

	"github.com/achilleasa/rt/types"
)

// An axis-aligned bounding box stored as [min, max].
type BBox [2]types.Vec3

// An inverted box that any union will overwrite.
func EmptyBBox() BBox {
	return BBox{
		types.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		types.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64},
	}
}

// Get the union of two boxes.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{types.MinVec3(b[0], b2[0]), types.MaxVec3(b[1], b2[1])}
}

// Extend the box so it includes point p.
func (b BBox) Extend(p types.Vec3) BBox {
	return BBox{types.MinVec3(b[0], p), types.MaxVec3(b[1], p)}
}

// Get the box side lengths.
func (b BBox) Extent() types.Vec3 {
	return b[1].Sub(b[0])
}

// Get twice the box midpoint along an axis. Sorting by this value orders
// boxes by their centers without the extra division.
func (b BBox) MidSum(axis int) float64 {
	return b[0][axis] + b[1][axis]
}

// Test whether the ray penetrates the box using the slab method. Each axis
// narrows the running [near, far] interval; the box is rejected as soon as
// the interval empties or lies entirely behind the ray origin.
func (b BBox) Hit(ray types.Ray) bool {
	tNear := -math.MaxFloat64
	tFar := math.MaxFloat64

	for axis := types.X; axis <= types.Z; axis++ {
		dir := ray.Dir[axis]
		org := ray.Origin[axis]

		// Parallel to this slab; hit only if the origin lies inside it
		if math.Abs(dir) < MinT {
			if org < b[0][axis] || org > b[1][axis] {
				return false
			}
			continue
		}

		t1 := (b[0][axis] - org) / dir
		t2 := (b[1][axis] - org) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}

		if tNear > tFar || tFar < MinT {
			return false
		}
	}

	return true
}
