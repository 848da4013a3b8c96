package types

// A ray with an origin and a direction. Consumers expect Dir to be
// normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.AddScaled(t, r.Dir)
}
