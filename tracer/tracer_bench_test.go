package tracer

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/rt/types"
)

func BenchmarkIntersectHierarchy(b *testing.B) {
	sc := randomScene(b, 1, 2000, true)
	tr := New(sc, DefaultOptions())
	rays := benchRays(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Intersect(rays[i%len(rays)])
	}
}

func BenchmarkIntersectLinear(b *testing.B) {
	sc := randomScene(b, 1, 2000, true)
	rays := benchRays(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IntersectAll(sc.Objects, rays[i%len(rays)])
	}
}

func BenchmarkTraceRow(b *testing.B) {
	sc := randomScene(b, 1, 500, true)
	tr := New(sc, DefaultOptions())
	fr := sc.Camera.Frame()
	row := make([]types.Color, sc.Camera.XRes)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.TraceRow(fr, i%sc.Camera.YRes, 1, 0, row)
	}
}

func benchRays(count int) []types.Ray {
	rng := rand.New(rand.NewSource(0))
	rays := make([]types.Ray, count)
	for i := range rays {
		rays[i] = randomRay(rng)
	}
	return rays
}
