package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// maxChannel keeps the scaled channel strictly below 256
const maxChannel = 0.999

// QuantizeChannel converts a linear averaged channel value to an 8-bit display value.
// Gamma 2 is applied with a square root, then the result is clamped to [0, 0.999]
// and scaled by 256. Negative and NaN inputs map to 0.
func QuantizeChannel(linear float64) uint8 {
	if math.IsNaN(linear) || linear <= 0 {
		return 0
	}
	c := math.Min(math.Sqrt(linear), maxChannel)
	return uint8(256 * c)
}

// ToRGBA converts an averaged linear color to a gamma-corrected opaque RGBA pixel
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: QuantizeChannel(c.X),
		G: QuantizeChannel(c.Y),
		B: QuantizeChannel(c.Z),
		A: 255,
	}
}
