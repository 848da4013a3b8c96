package tracer

import (
	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/types"
)

// Trace the primary ray(s) for pixel (x, y). With more than one sample the
// rays are jittered inside the pixel footprint and their colors averaged.
func (tr *Tracer) TracePixel(fr scene.ViewFrame, x, y, samples int) types.Color {
	xr, yr := fr.PixelOffset(x, y)
	if samples <= 1 {
		return tr.Trace(types.Ray{Origin: fr.Eye, Dir: fr.Dir(xr, yr)}, 0)
	}

	var col types.Color
	for s := 0; s < samples; s++ {
		jx := xr - fr.XStep*tr.rng.Float64()
		jy := yr - fr.YStep*tr.rng.Float64()
		col = col.Add(tr.Trace(types.Ray{Origin: fr.Eye, Dir: fr.Dir(jx, jy)}, 0))
	}
	return col.Mul(1 / float64(samples))
}

// Trace all pixels of row y into out which must hold XRes entries. The
// jitter generator is re-seeded from (seed, y) so a row renders the same
// regardless of which worker or process traces it.
func (tr *Tracer) TraceRow(fr scene.ViewFrame, y, samples int, seed int64, out []types.Color) {
	if samples > 1 {
		tr.rng.Seed(RowSeed(seed, y))
	}

	for x := range out {
		out[x] = tr.TracePixel(fr, x, y, samples)
	}
}

// Derive the jitter seed for a row.
func RowSeed(seed int64, y int) int64 {
	return seed*1000003 + int64(y)
}
