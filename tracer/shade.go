package tracer

import (
	"math"

	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/types"
)

// Compute the color at intersection point ip using the Whitted model.
// Unoccluded lights add diffuse and specular terms on top of the ambient
// color; reflection and refraction rays are traced recursively.
func (tr *Tracer) Illuminate(inter scene.Intersection, ray types.Ray, ip types.Vec3, depth int) types.Color {
	if depth >= tr.opts.MaxDepth {
		return types.Color{}
	}

	prim := inter.Primitive
	mat := prim.Material
	normal := prim.Normal(ray, ip)

	col := mat.Ambient
	for l, light := range tr.scene.Lights {
		lDir := light.Position.Sub(ip)

		// Light is behind the surface
		if normal.Dot(lDir) < 0 {
			continue
		}

		lDir, lDist := lDir.NormalizeLen()
		if tr.opts.Shadows && tr.inShadow(l, depth, prim, types.Ray{Origin: ip, Dir: lDir}, lDist) {
			continue
		}

		incident := normal.Dot(lDir)
		col = col.AddWeighted(incident*light.Intensity, mat.Diffuse)

		if mat.SpecularExp != 0 {
			spec := math.Pow(lDir.Dot(reflect(ray.Dir, normal)), mat.SpecularExp)
			col = col.AddWeighted(spec*light.Intensity, mat.Specular)
		}
	}

	if tr.opts.Reflections && mat.ReflectWeight != 0 {
		tr.stats.Reflected++
		c := tr.Trace(types.Ray{Origin: ip, Dir: reflect(ray.Dir, normal)}, depth+1)
		col = col.AddWeighted(mat.ReflectWeight, c.Modulate(mat.ReflectColor))
	}

	if tr.opts.Refractions && mat.RefractWeight != 0 {
		n1, n2 := 1.0, mat.IOR
		if inter.Inside {
			n1, n2 = mat.IOR, 1.0
		}

		if dir, ok := refract(n1, n2, ray.Dir, normal); ok {
			tr.stats.Refracted++
			c := tr.Trace(types.Ray{Origin: ip, Dir: dir}, depth+1)
			col = col.AddWeighted(mat.RefractWeight, c.Modulate(mat.RefractColor))
		}
	}

	return col
}

// Check whether an object other than prim lies between the shadow ray
// origin and a light at distance lDist. The cached occluder for this light
// and depth is tested first; on a cache miss the scene is queried and the
// cache updated with the result.
func (tr *Tracer) inShadow(light, depth int, prim *scene.Primitive, shadowRay types.Ray, lDist float64) bool {
	tr.stats.ShadowRays++
	maxT := lDist - scene.MinT

	if tr.shadowCache != nil {
		if cached := tr.shadowCache[light][depth]; cached != nil && cached != prim {
			if inter, hit := cached.Intersect(shadowRay); hit && inter.T < maxT {
				tr.stats.ShadowHits++
				return true
			}
		}
	}

	occluder := tr.Occluder(shadowRay, prim, maxT)
	if tr.shadowCache != nil {
		tr.shadowCache[light][depth] = occluder
	}
	if occluder == nil {
		return false
	}

	tr.stats.ShadowHits++
	return true
}

// Reflect incident direction v about normal n. The incident vector is
// scaled by 1/|v·n| before adding 2n which yields the mirror direction
// once normalized.
func reflect(v, n types.Vec3) types.Vec3 {
	nl := 1 / math.Abs(v.Dot(n))
	return types.Comb(nl, v, 2.0, n).Normalize()
}

// Refract direction i through a surface with normal n going from a medium
// with index n1 to one with index n2. Returns false on total internal
// reflection.
func refract(n1, n2 float64, i, n types.Vec3) (types.Vec3, bool) {
	eta := n1 / n2
	c1 := -i.Dot(n)
	c2 := 1.0 - eta*eta*(1.0-c1*c1)
	if c2 < 0 {
		return types.Vec3{}, false
	}

	return types.Comb(eta, i, eta*c1-math.Sqrt(c2), n), true
}
