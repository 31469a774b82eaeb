package colour

import "math"

// pow25to7 is 25^7, used by the chroma compensation terms.
const pow25to7 = 6103515625.0

// DeltaE2000 returns the CIEDE2000 colour difference between two Lab colours
// with the parametric weights kL = kC = kH = 1.
//
// The implementation follows Sharma, Wu and Dalal, "The CIEDE2000
// Color-Difference Formula: Implementation Notes, Supplementary Test Data, and
// Mathematical Observations" (2005), including the conventions for zero chroma:
// the hue angle is 0 when a' = b' = 0, the hue difference is 0 when either
// chroma is 0, and the mean hue is the plain sum in that case.
func DeltaE2000(x, y Lab) float64 {
	// Chroma compensation of a*.
	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	cBar7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(cBar7/(cBar7+pow25to7)))

	a1p := (1 + g) * x.A
	a2p := (1 + g) * y.A
	c1p := math.Hypot(a1p, x.B)
	c2p := math.Hypot(a2p, y.B)
	h1p := hueAngle(a1p, x.B)
	h2p := hueAngle(a2p, y.B)

	// Differences.
	dLp := y.L - x.L
	dCp := c2p - c1p

	chromaProduct := c1p * c2p
	var dhp float64
	switch diff := h2p - h1p; {
	case chromaProduct == 0:
		dhp = 0
	case math.Abs(diff) <= 180:
		dhp = diff
	case diff > 180:
		dhp = diff - 360
	default:
		dhp = diff + 360
	}
	dHp := 2 * math.Sqrt(chromaProduct) * math.Sin(radians(dhp/2))

	// Means.
	lBarp := (x.L + y.L) / 2
	cBarp := (c1p + c2p) / 2

	var hBarp float64
	switch sum := h1p + h2p; {
	case chromaProduct == 0:
		hBarp = sum
	case math.Abs(h1p-h2p) <= 180:
		hBarp = sum / 2
	case sum < 360:
		hBarp = (sum + 360) / 2
	default:
		hBarp = (sum - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(radians(hBarp-30)) +
		0.24*math.Cos(radians(2*hBarp)) +
		0.32*math.Cos(radians(3*hBarp+6)) -
		0.20*math.Cos(radians(4*hBarp-63))

	dTheta := 30 * math.Exp(-square((hBarp-275)/25))
	cBarp7 := math.Pow(cBarp, 7)
	rc := 2 * math.Sqrt(cBarp7/(cBarp7+pow25to7))

	lShift := square(lBarp - 50)
	sl := 1 + 0.015*lShift/math.Sqrt(20+lShift)
	sc := 1 + 0.045*cBarp
	sh := 1 + 0.015*cBarp*t
	rt := -math.Sin(radians(2*dTheta)) * rc

	dl := dLp / sl
	dc := dCp / sc
	dh := dHp / sh

	// |rt| <= 2 keeps the sum non-negative; clamp rounding noise.
	return math.Sqrt(math.Max(0, dl*dl+dc*dc+dh*dh+rt*dc*dh))
}

// DeltaE returns the CIEDE2000 difference between two sRGB colours.
func DeltaE(a, b RGB) float64 {
	return DeltaE2000(ToLab(a), ToLab(b))
}

// hueAngle returns atan2(b, a) in degrees within [0, 360), or 0 when both
// components are zero.
func hueAngle(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func square(v float64) float64 {
	return v * v
}
