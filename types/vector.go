package types

import "math"

// Vec3 is a 3 component vector. Components are indexed by axis so that
// code that selects an axis at runtime (slab tests, dominant axes) can
// use plain indexing.
type Vec3 [3]float64

// Axis indices.
const (
	X = iota
	Y
	Z
)

// Define a 3 component vector.
func XYZ(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Negate all vector components.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// AddScaled returns v + s*v2.
func (v Vec3) AddScaled(s float64, v2 Vec3) Vec3 {
	return Vec3{s*v2[0] + v[0], s*v2[1] + v[1], s*v2[2] + v[2]}
}

// Comb returns the linear combination a*v1 + b*v2.
func Comb(a float64, v1 Vec3, b float64, v2 Vec3) Vec3 {
	return Vec3{a*v1[0] + b*v2[0], a*v1[1] + b*v2[1], a*v1[2] + b*v2[2]}
}

// Get 3 component vector length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize 3 component vector. A zero length vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	n, _ := v.NormalizeLen()
	return n
}

// NormalizeLen normalizes the vector and also returns its original length.
func (v Vec3) NormalizeLen() (Vec3, float64) {
	l := v.Len()
	if l == 0 {
		return v, 0
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}, l
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float64 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}
