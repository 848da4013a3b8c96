package scene

import (
	"math"

	"github.com/achilleasa/rt/types"
)

// Defines a surface material. Materials are shared by all primitives that
// reference them and must not be modified once the scene is built.
type Material struct {
	// Reflection weight and tint.
	ReflectWeight float64
	ReflectColor  types.Color

	// Refraction weight and tint.
	RefractWeight float64
	RefractColor  types.Color

	// Local illumination colors.
	Ambient  types.Color
	Diffuse  types.Color
	Specular types.Color

	// Phong exponent. Always an integer value; see NewMaterial.
	SpecularExp float64

	// Index of refraction.
	IOR float64
}

// Create a new material. The specular exponent is rounded to the nearest
// integer so that rendered output stays identical to images produced by
// renderers whose pow() only accepted integral exponents.
func NewMaterial(reflectColor types.Color, reflectWeight float64, refractColor types.Color, refractWeight float64, ambient, diffuse, specular types.Color, specularExp, ior float64) *Material {
	return &Material{
		ReflectWeight: reflectWeight,
		ReflectColor:  reflectColor,
		RefractWeight: refractWeight,
		RefractColor:  refractColor,
		Ambient:       ambient,
		Diffuse:       diffuse,
		Specular:      specular,
		SpecularExp:   math.Round(specularExp),
		IOR:           ior,
	}
}
