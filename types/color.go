package types

// Color is an RGB triplet. Values are unbounded while tracing; the output
// stage is responsible for bringing them into the [0, 1] range.
type Color [3]float64

// Define a color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Add a color.
func (c Color) Add(c2 Color) Color {
	return Color{c[0] + c2[0], c[1] + c2[1], c[2] + c2[2]}
}

// Multiply all channels with a scalar.
func (c Color) Mul(s float64) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

// Modulate multiplies two colors channel by channel.
func (c Color) Modulate(c2 Color) Color {
	return Color{c[0] * c2[0], c[1] * c2[1], c[2] * c2[2]}
}

// AddWeighted returns c + s*c2.
func (c Color) AddWeighted(s float64, c2 Color) Color {
	return Color{c[0] + s*c2[0], c[1] + s*c2[1], c[2] + s*c2[2]}
}

// Get the max channel value.
func (c Color) MaxComponent() float64 {
	m := c[0]
	if c[1] > m {
		m = c[1]
	}
	if c[2] > m {
		m = c[2]
	}
	return m
}
