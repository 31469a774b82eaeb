package colour

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a colour in CIE L*a*b* space using the D65 reference white.
// L runs from 0 (black) to 100 (diffuse white); A and B are unbounded but
// stay roughly within -128..127 for sRGB inputs.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// String returns the Lab coordinates rounded for display.
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.2f, %.2f, %.2f)", c.L, c.A, c.B)
}

// toColorful converts RGB to go-colorful's normalised representation.
func toColorful(rgb RGB) colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

// ToLab converts an sRGB colour to CIE L*a*b*.
// go-colorful works on a 0-1 lightness scale, so the result is scaled by 100
// to the conventional range the CIEDE2000 constants are tuned for.
func ToLab(rgb RGB) Lab {
	l, a, b := toColorful(rgb).Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100}
}

// ToLabs converts every colour in order.
func ToLabs(colours []RGB) []Lab {
	labs := make([]Lab, len(colours))
	for i, c := range colours {
		labs[i] = ToLab(c)
	}
	return labs
}

// Hue returns the HSL hue of a colour in degrees, in [0, 360).
// Achromatic colours (greys) have hue 0.
func Hue(rgb RGB) float64 {
	h, _, _ := toColorful(rgb).Hsl()
	if h >= 360 {
		h -= 360
	}
	return h
}
