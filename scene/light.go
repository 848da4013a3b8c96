package scene

import "github.com/achilleasa/rt/types"

// A point light source.
type Light struct {
	Position types.Vec3

	// Light color. Kept for scene statistics; shading only uses the
	// intensity.
	Color types.Color

	// Set by Scene.Finalize to sqrt(n)/n where n is the light count.
	Intensity float64
}

// Background cue modes. The cue is recorded but not applied.
const (
	CueNone byte = 'n'
	CueX    byte = 'x'
	CueY    byte = 'y'
	CueZ    byte = 'z'
)

// The color returned for rays that escape the scene.
type Background struct {
	Color types.Color
	Cue   byte
}

// Returns true if c is a supported background cue mode.
func ValidCue(c byte) bool {
	return c == CueNone || c == CueX || c == CueY || c == CueZ
}
