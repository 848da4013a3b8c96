package tracer

import (
	"math/rand"

	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/types"
)

// Default max recursion depth. Rays spawned at this depth contribute black.
const MaxDepth = 5

type Options struct {
	// Enable shadow rays.
	Shadows bool

	// Enable secondary reflection rays.
	Reflections bool

	// Enable secondary refraction rays.
	Refractions bool

	// Remember the last occluder found for each light and depth and test
	// it before falling back to a full scene query. Rendered output is
	// identical with the cache disabled.
	ShadowCache bool

	// Max recursion depth; 0 selects MaxDepth.
	MaxDepth int
}

// Get the default tracer options with all effects enabled.
func DefaultOptions() Options {
	return Options{
		Shadows:     true,
		Reflections: true,
		Refractions: true,
		ShadowCache: true,
		MaxDepth:    MaxDepth,
	}
}

// Tracer statistics.
type Stats struct {
	// Number of traced rays.
	Rays uint64

	// Number of traced rays that hit an object.
	Intersections uint64

	// Number of shadow rays and the number of them that found an occluder.
	ShadowRays uint64
	ShadowHits uint64

	// Number of spawned reflection and refraction rays.
	Reflected uint64
	Refracted uint64
}

// Accumulate stats from another tracer.
func (s *Stats) Add(other Stats) {
	s.Rays += other.Rays
	s.Intersections += other.Intersections
	s.ShadowRays += other.ShadowRays
	s.ShadowHits += other.ShadowHits
	s.Reflected += other.Reflected
	s.Refracted += other.Refracted
}

// A Tracer renders rays against a scene. The scene is shared read-only;
// everything a tracer mutates while tracing (traversal stack, shadow cache,
// random generator and stats) is owned by the tracer so each worker needs
// its own instance.
type Tracer struct {
	scene *scene.Scene
	opts  Options

	// Pending nodes for the hierarchy traversal.
	stack []*scene.Node

	// Last occluder per light and recursion depth.
	shadowCache [][]*scene.Primitive

	// Generator for super-sampling jitter.
	rng *rand.Rand

	stats Stats
}

// Create a new tracer for a finalized scene.
func New(sc *scene.Scene, opts Options) *Tracer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = MaxDepth
	}

	tr := &Tracer{
		scene: sc,
		opts:  opts,
		stack: make([]*scene.Node, 0, sc.StackDepth),
		rng:   rand.New(rand.NewSource(0)),
	}

	if opts.ShadowCache {
		tr.shadowCache = make([][]*scene.Primitive, len(sc.Lights))
		for i := range tr.shadowCache {
			tr.shadowCache[i] = make([]*scene.Primitive, opts.MaxDepth)
		}
	}

	return tr
}

// Get the tracer options.
func (tr *Tracer) Options() Options {
	return tr.opts
}

// Get accumulated tracer statistics.
func (tr *Tracer) Stats() Stats {
	return tr.stats
}

// Trace a ray and return the color it carries back to its origin. Rays that
// escape the scene return the background color.
func (tr *Tracer) Trace(ray types.Ray, depth int) types.Color {
	tr.stats.Rays++

	inter, hit := tr.Intersect(ray)
	if !hit {
		return tr.scene.Background.Color
	}
	tr.stats.Intersections++

	return tr.Illuminate(inter, ray, ray.At(inter.T), depth)
}
