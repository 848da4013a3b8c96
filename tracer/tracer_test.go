package tracer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/scene/bvh"
	"github.com/achilleasa/rt/types"
)

const testEpsilon = 1e-9

type sceneBuilder struct {
	t  testing.TB
	sc *scene.Scene
}

func newSceneBuilder(t testing.TB) *sceneBuilder {
	sc := scene.NewScene()
	sc.Camera = scene.Camera{
		From:   types.XYZ(0, 0, 0),
		LookAt: types.XYZ(0, 0, 1),
		Up:     types.XYZ(0, 1, 0),
		Angle:  30,
		XRes:   16,
		YRes:   16,
	}
	sc.Background.Color = types.RGB(0.1, 0.2, 0.3)
	return &sceneBuilder{t: t, sc: sc}
}

func (b *sceneBuilder) material(mat *scene.Material) *scene.Material {
	if err := b.sc.AddMaterial(mat); err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
	return mat
}

func (b *sceneBuilder) add(prim *scene.Primitive, err error) *scene.Primitive {
	if err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
	if err = b.sc.AddPrimitive(prim); err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
	return prim
}

func (b *sceneBuilder) light(pos types.Vec3) {
	if err := b.sc.AddLight(&scene.Light{Position: pos, Color: types.RGB(1, 1, 1)}); err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
}

func (b *sceneBuilder) build() *scene.Scene {
	if err := b.sc.Finalize(); err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
	if err := bvh.BuildScene(b.sc, bvh.DefaultOptions()); err != nil {
		b.t.Fatalf("unexpected error: %v", err)
	}
	return b.sc
}

func matte(c types.Color) *scene.Material {
	return scene.NewMaterial(types.Color{}, 0, types.Color{}, 0, c.Mul(0.1), c, types.RGB(1, 1, 1), 20, 1)
}

func mirror() *scene.Material {
	return scene.NewMaterial(types.RGB(1, 1, 1), 0.8, types.Color{}, 0, types.RGB(0.05, 0.05, 0.05), types.RGB(0.2, 0.2, 0.2), types.Color{}, 0, 1)
}

func glass() *scene.Material {
	return scene.NewMaterial(types.RGB(1, 1, 1), 0.1, types.RGB(1, 1, 1), 0.9, types.Color{}, types.RGB(0.1, 0.1, 0.1), types.RGB(1, 1, 1), 50, 1.5)
}

func square(z, half float64) []types.Vec3 {
	return []types.Vec3{
		types.XYZ(-half, -half, z),
		types.XYZ(half, -half, z),
		types.XYZ(half, half, z),
		types.XYZ(-half, half, z),
	}
}

// Create a random primitive of the given kind around center.
func randomPrimitive(rng *rand.Rand, kind scene.PrimitiveType, center types.Vec3, mat *scene.Material) (*scene.Primitive, error) {
	size := 0.2 + rng.Float64()
	offset := func() types.Vec3 {
		return types.XYZ(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Mul(size)
	}

	switch kind {
	case scene.HollowSpherePrimitive:
		return scene.NewHollowSphere(center, size, rng.Float64()*size, mat)
	case scene.ConePrimitive:
		return scene.NewCone(center, size*rng.Float64(), center.Add(offset()).Add(types.XYZ(0, 0, size)), size*rng.Float64(), mat)
	case scene.PolygonPrimitive:
		return scene.NewPolygon([]types.Vec3{center, center.Add(types.XYZ(size, 0, 0)), center.Add(offset())}, mat)
	case scene.RingPrimitive:
		return scene.NewRing(center, center.Add(types.XYZ(size, 0, 0)), center.Add(types.XYZ(0, size, 0)).Add(offset()), size, size*rng.Float64(), mat)
	case scene.QuadricPrimitive:
		// Sphere of radius size centered at center
		q := scene.Quadric{
			Loc: center,
			Min: center.Sub(types.XYZ(size, size, size)),
			Max: center.Add(types.XYZ(size, size, size)),
		}
		q.A, q.E, q.H = 1, 1, 1
		q.D, q.G, q.I = -center[0], -center[1], -center[2]
		q.J = center.Dot(center) - size*size
		return scene.NewQuadric(q, mat)
	}
	return scene.NewSphere(center, size, mat)
}

// Generate a scene with count random primitives of every kind in front of
// a wall. The first primitive is always a sphere.
func randomScene(t testing.TB, seed int64, count int, withGlass bool) *scene.Scene {
	rng := rand.New(rand.NewSource(seed))
	b := newSceneBuilder(t)
	mats := []*scene.Material{
		b.material(matte(types.RGB(1, 0, 0))),
		b.material(mirror()),
	}
	if withGlass {
		mats = append(mats, b.material(glass()))
	}

	kinds := []scene.PrimitiveType{
		scene.SpherePrimitive,
		scene.HollowSpherePrimitive,
		scene.ConePrimitive,
		scene.PolygonPrimitive,
		scene.RingPrimitive,
		scene.QuadricPrimitive,
	}
	for i := 0; i < count; i++ {
		center := types.XYZ(rng.Float64()*20-10, rng.Float64()*20-10, 10+rng.Float64()*20)
		b.add(randomPrimitive(rng, kinds[i%len(kinds)], center, mats[rng.Intn(len(mats))]))
	}
	b.add(scene.NewPolygon(square(35, 40), mats[0]))

	b.light(types.XYZ(-20, 20, -5))
	b.light(types.XYZ(20, 15, 0))
	b.light(types.XYZ(0, -20, 5))
	return b.build()
}

func randomRay(rng *rand.Rand) types.Ray {
	return types.Ray{
		Origin: types.XYZ(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2),
		Dir:    types.XYZ(rng.Float64()-0.5, rng.Float64()-0.5, rng.Float64()).Normalize(),
	}
}

func TestIntersectMatchesBruteForce(t *testing.T) {
	for _, count := range []int{1, 5, 50, 400} {
		sc := randomScene(t, int64(count), count, true)
		tr := New(sc, DefaultOptions())
		rng := rand.New(rand.NewSource(99))

		for i := 0; i < 2000; i++ {
			ray := randomRay(rng)
			got, gotHit := tr.Intersect(ray)
			exp, expHit := IntersectAll(sc.Objects, ray)

			if gotHit != expHit {
				t.Fatalf("[%d prims, ray %d] expected hit to be %t; got %t", count, i, expHit, gotHit)
			}
			if !gotHit {
				continue
			}
			if got.T != exp.T || got.Inside != exp.Inside {
				t.Fatalf("[%d prims, ray %d] expected t=%g inside=%t; got t=%g inside=%t", count, i, exp.T, exp.Inside, got.T, got.Inside)
			}
		}
	}
}

func TestIntersectNearestOfCollinearSpheres(t *testing.T) {
	b := newSceneBuilder(t)
	mat := b.material(matte(types.RGB(1, 1, 1)))
	first := b.add(scene.NewSphere(types.XYZ(0, 0, 0), 1, mat))
	b.add(scene.NewSphere(types.XYZ(3, 0, 0), 1, mat))
	b.add(scene.NewSphere(types.XYZ(6, 0, 0), 1, mat))
	b.light(types.XYZ(0, 10, 0))
	sc := b.build()

	ray := types.Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(1, 0, 0)}
	inter, hit := New(sc, DefaultOptions()).Intersect(ray)
	exp, _ := IntersectAll(sc.Objects, ray)

	if !hit || inter.Primitive != first {
		t.Fatalf("expected the sphere at the origin to be hit first")
	}
	if inter.T != exp.T || math.Abs(inter.T-1) > testEpsilon || !inter.Inside {
		t.Fatalf("expected an inside hit at t=1; got t=%g inside=%t", inter.T, inter.Inside)
	}

	// From outside the row of spheres
	ray.Origin = types.XYZ(-5, 0, 0)
	inter, hit = New(sc, DefaultOptions()).Intersect(ray)
	if !hit || inter.Primitive != first || math.Abs(inter.T-4) > testEpsilon || inter.Inside {
		t.Fatalf("expected an outside hit on the first sphere at t=4; got t=%g inside=%t", inter.T, inter.Inside)
	}
}

func TestIntersectWithoutHierarchy(t *testing.T) {
	sc := randomScene(t, 5, 20, true)
	withBVH := New(sc, DefaultOptions())

	flat := *sc
	flat.Root = nil
	linear := New(&flat, DefaultOptions())

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		ray := randomRay(rng)
		a, aHit := withBVH.Intersect(ray)
		b, bHit := linear.Intersect(ray)
		if aHit != bHit || a.T != b.T {
			t.Fatalf("[ray %d] hierarchy and linear scan disagree", i)
		}
	}

	// A leaf root delegates straight to its primitive
	leaf := *sc
	leaf.Root = scene.NewLeaf(sc.Objects[0])
	tr := New(&leaf, DefaultOptions())
	center := sc.Objects[0].Sphere.Center
	inter, hit := tr.Intersect(types.Ray{Origin: center.Sub(types.XYZ(0, 0, 5)), Dir: types.XYZ(0, 0, 1)})
	if !hit || inter.Primitive != sc.Objects[0] {
		t.Fatal("expected leaf root to be intersected")
	}
}

func TestMissReturnsBackground(t *testing.T) {
	sc := randomScene(t, 1, 3, true)
	tr := New(sc, DefaultOptions())

	col := tr.Trace(types.Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, -1)}, 0)
	if col != sc.Background.Color {
		t.Fatalf("expected background color %v; got %v", sc.Background.Color, col)
	}
	if stats := tr.Stats(); stats.Rays != 1 || stats.Intersections != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRecursionDepthCap(t *testing.T) {
	b := newSceneBuilder(t)
	mat := b.material(scene.NewMaterial(types.RGB(1, 1, 1), 1, types.Color{}, 0, types.RGB(0.1, 0.1, 0.1), types.Color{}, types.Color{}, 0, 1))
	b.add(scene.NewPolygon(square(0, 100), mat))
	b.add(scene.NewPolygon(square(10, 100), mat))
	b.light(types.XYZ(0, 0, 5))
	sc := b.build()

	opts := DefaultOptions()
	opts.Shadows = false
	tr := New(sc, opts)

	col := tr.Trace(types.Ray{Origin: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, 1)}, 0)

	stats := tr.Stats()
	if stats.Reflected != MaxDepth {
		t.Fatalf("expected %d reflected rays; got %d", MaxDepth, stats.Reflected)
	}
	if stats.Rays != MaxDepth+1 {
		t.Fatalf("expected %d rays; got %d", MaxDepth+1, stats.Rays)
	}

	// Each bounce adds the ambient term of the previous one
	expChannel := 0.0
	for i := 0; i < MaxDepth; i++ {
		expChannel += 0.1
	}
	for c := 0; c < 3; c++ {
		if math.Abs(col[c]-expChannel) > testEpsilon {
			t.Fatalf("expected channel %d to be %g; got %g", c, expChannel, col[c])
		}
	}

	opts.MaxDepth = 2
	tr = New(sc, opts)
	tr.Trace(types.Ray{Origin: types.XYZ(0, 0, 5), Dir: types.XYZ(0, 0, 1)}, 0)
	if stats = tr.Stats(); stats.Reflected != 2 {
		t.Fatalf("expected 2 reflected rays with a custom depth; got %d", stats.Reflected)
	}
}

func TestReflectionToggle(t *testing.T) {
	b := newSceneBuilder(t)
	mirrorMat := b.material(mirror())
	wallMat := b.material(matte(types.RGB(0, 1, 0)))
	sphere := b.add(scene.NewSphere(types.XYZ(0, 0, 10), 2, mirrorMat))
	b.add(scene.NewPolygon(square(-5, 50), wallMat))
	b.light(types.XYZ(5, 5, 0))
	sc := b.build()

	on := DefaultOptions()
	off := DefaultOptions()
	off.Reflections = false

	ray := types.Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0.05, 0.02, 1).Normalize()}
	withRefl := New(sc, on).Trace(ray, 0)
	withoutRefl := New(sc, off).Trace(ray, 0)

	// Rebuild the reflection term by hand
	tr := New(sc, on)
	inter, hit := tr.Intersect(ray)
	if !hit || inter.Primitive != sphere {
		t.Fatal("expected primary ray to hit the mirror sphere")
	}
	ip := ray.At(inter.T)
	normal := sphere.Normal(ray, ip)
	reflected := tr.Trace(types.Ray{Origin: ip, Dir: reflect(ray.Dir, normal)}, 1)
	term := reflected.Modulate(mirrorMat.ReflectColor).Mul(mirrorMat.ReflectWeight)

	for c := 0; c < 3; c++ {
		if diff := withRefl[c] - withoutRefl[c]; math.Abs(diff-term[c]) > testEpsilon {
			t.Fatalf("expected channel %d to differ by the reflection term %g; got %g", c, term[c], diff)
		}
	}
	if withRefl == withoutRefl {
		t.Fatal("expected reflection to change the rendered color")
	}
}

func TestShadowCacheDoesNotAffectOutput(t *testing.T) {
	sc := randomScene(t, 11, 60, true)
	fr := sc.Camera.Frame()

	cached := DefaultOptions()
	uncached := DefaultOptions()
	uncached.ShadowCache = false

	trA := New(sc, cached)
	trB := New(sc, uncached)
	rowA := make([]types.Color, sc.Camera.XRes)
	rowB := make([]types.Color, sc.Camera.XRes)
	for y := 0; y < sc.Camera.YRes; y++ {
		trA.TraceRow(fr, y, 1, 0, rowA)
		trB.TraceRow(fr, y, 1, 0, rowB)
		for x := range rowA {
			if rowA[x] != rowB[x] {
				t.Fatalf("pixel (%d, %d) differs with the shadow cache enabled: %v vs %v", x, y, rowA[x], rowB[x])
			}
		}
	}

	if trA.Stats().ShadowRays != trB.Stats().ShadowRays || trA.Stats().ShadowHits != trB.Stats().ShadowHits {
		t.Fatalf("expected identical shadow stats; got %+v and %+v", trA.Stats(), trB.Stats())
	}
}

func TestShadows(t *testing.T) {
	b := newSceneBuilder(t)
	mat := b.material(matte(types.RGB(1, 1, 1)))
	floor := b.add(scene.NewPolygon(square(10, 50), mat))
	b.add(scene.NewSphere(types.XYZ(0, 0, 5), 1, mat))
	b.light(types.XYZ(0, 0, 0))
	sc := b.build()

	// The sphere sits between the light and the floor center
	ip := types.XYZ(0, 0, 10)
	ray := types.Ray{Origin: types.XYZ(3, 0, 0), Dir: ip.Sub(types.XYZ(3, 0, 0)).Normalize()}
	tr := New(sc, DefaultOptions())
	inter := scene.Intersection{Primitive: floor, T: 10}

	shadowed := tr.Illuminate(inter, ray, ip, 0)
	if shadowed != mat.Ambient {
		t.Fatalf("expected shadowed point to receive ambient light only; got %v", shadowed)
	}

	opts := DefaultOptions()
	opts.Shadows = false
	lit := New(sc, opts).Illuminate(inter, ray, ip, 0)
	if !(lit[0] > shadowed[0]) {
		t.Fatalf("expected unshadowed point to be brighter; got %v vs %v", lit, shadowed)
	}
}

func TestReflectAndRefract(t *testing.T) {
	r := reflect(types.XYZ(1, -1, 0).Normalize(), types.XYZ(0, 1, 0))
	exp := types.XYZ(1, 1, 0).Normalize()
	for c := 0; c < 3; c++ {
		if math.Abs(r[c]-exp[c]) > testEpsilon {
			t.Fatalf("expected reflection %v; got %v", exp, r)
		}
	}

	dir, ok := refract(1, 1.5, types.XYZ(0, 0, -1), types.XYZ(0, 0, 1))
	if !ok || math.Abs(dir[2]+1) > testEpsilon {
		t.Fatalf("expected normal incidence to pass straight through; got %v (%t)", dir, ok)
	}

	// Going from glass to air at a grazing angle
	if _, ok = refract(1.5, 1, types.XYZ(1, 0, -0.1).Normalize(), types.XYZ(0, 0, 1)); ok {
		t.Fatal("expected total internal reflection")
	}
}

func TestTraceRowDeterminism(t *testing.T) {
	sc := randomScene(t, 3, 30, true)
	fr := sc.Camera.Frame()

	trA := New(sc, DefaultOptions())
	trB := New(sc, DefaultOptions())
	rowA := make([]types.Color, sc.Camera.XRes)
	rowB := make([]types.Color, sc.Camera.XRes)

	// Trace rows in different orders; jittered samples must match
	trB.TraceRow(fr, 7, 4, 42, rowB)
	trA.TraceRow(fr, 3, 4, 42, rowA)
	trA.TraceRow(fr, 5, 4, 42, rowA)
	trB.TraceRow(fr, 5, 4, 42, rowB)

	for x := range rowA {
		if rowA[x] != rowB[x] {
			t.Fatalf("pixel %d differs between tracers: %v vs %v", x, rowA[x], rowB[x])
		}
	}

	trB.TraceRow(fr, 5, 4, 43, rowB)
	same := true
	for x := range rowA {
		same = same && rowA[x] == rowB[x]
	}
	if same {
		t.Fatal("expected a different seed to change the jitter pattern")
	}
}

func TestOccluder(t *testing.T) {
	b := newSceneBuilder(t)
	mat := b.material(matte(types.RGB(1, 1, 1)))
	near := b.add(scene.NewSphere(types.XYZ(0, 0, 5), 1, mat))
	far := b.add(scene.NewSphere(types.XYZ(0, 0, 10), 1, mat))
	b.light(types.XYZ(0, 10, 0))
	sc := b.build()

	tr := New(sc, DefaultOptions())
	ray := types.Ray{Origin: types.XYZ(0, 0, 0), Dir: types.XYZ(0, 0, 1)}

	if occ := tr.Occluder(ray, nil, 3); occ != nil {
		t.Fatal("expected no occluder closer than t=3")
	}
	if occ := tr.Occluder(ray, near, 20); occ != far {
		t.Fatal("expected the far sphere to occlude when the near one is excluded")
	}
	if occ := tr.Occluder(ray, far, 20); occ != near {
		t.Fatal("expected the near sphere to occlude when the far one is excluded")
	}
	if occ := tr.Occluder(ray, near, 8); occ != nil {
		t.Fatal("expected the far sphere to be out of range")
	}
}
