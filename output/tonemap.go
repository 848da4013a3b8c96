package output

import "github.com/achilleasa/rt/types"

// Scale a color so that its largest channel does not exceed 1. Colors that
// are already in range are returned unchanged so applying ToneMap twice is
// the same as applying it once.
func ToneMap(c types.Color) types.Color {
	if m := c.MaxComponent(); m > 1 {
		return c.Mul(1 / m)
	}
	return c
}

// Convert a tone-mapped color to 8-bit RGB. Channel values are truncated
// and clamped to [0, 255].
func Bytes(c types.Color) [3]byte {
	var out [3]byte
	for i, v := range c {
		b := int(255 * v)
		switch {
		case b < 0:
			b = 0
		case b > 255:
			b = 255
		}
		out[i] = byte(b)
	}
	return out
}
