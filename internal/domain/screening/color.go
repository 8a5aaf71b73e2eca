package screening

import "math"

// Gamma bounds accepted by the colour encoding. Callers at the control
// surface clamp user input into this range with ClampGamma.
const (
	GammaMin = 0.4
	GammaMax = 2.5
)

// FillAlpha is the fixed alpha channel attached to every map point. The core
// never varies it; it exists only so the rendering surface receives a complete
// RGBA fill.
const FillAlpha uint8 = 180

// RGB is one computed fill colour. Channels are produced by truncating the
// interpolated float to an integer, never by rounding, so repeated runs are
// bit-identical.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// gradientStop anchors the diverging palette at a position in [0,1].
type gradientStop struct {
	pos   float64
	color RGB
}

// Diverging palette: blue (low priority) through yellow to red (high
// priority). The stop table is the single source of truth for the gradient;
// interpolation is piecewise linear between adjacent stops.
var gradientStops = []gradientStop{
	{pos: 0.0, color: RGB{R: 0, G: 90, B: 255}},
	{pos: 0.5, color: RGB{R: 255, G: 225, B: 0}},
	{pos: 1.0, color: RGB{R: 230, G: 57, B: 70}},
}

// ClampGamma forces g into the supported [GammaMin, GammaMax] range.
func ClampGamma(g float64) float64 {
	if g < GammaMin {
		return GammaMin
	}
	if g > GammaMax {
		return GammaMax
	}
	return g
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PercentileColor maps a percentile rank p through the sensitivity curve
// pg = p^gamma and then through the diverging gradient. p is clamped to
// [0,1]; gamma is expected to be within [GammaMin, GammaMax] (callers clamp
// at the boundary). gamma < 1 compresses the low end and spreads contrast
// across the middle and high end; gamma > 1 does the opposite.
//
// The function is pure and total: any finite input yields a colour.
func PercentileColor(p, gamma float64) RGB {
	pg := math.Pow(clampUnit(p), gamma)

	for i := 0; i+1 < len(gradientStops); i++ {
		lo, hi := gradientStops[i], gradientStops[i+1]
		if pg > hi.pos && i+2 < len(gradientStops) {
			continue
		}
		t := (pg - lo.pos) / (hi.pos - lo.pos)
		if t > 1 {
			t = 1
		}
		return RGB{
			R: uint8(int(lerp(float64(lo.color.R), float64(hi.color.R), t))),
			G: uint8(int(lerp(float64(lo.color.G), float64(hi.color.G), t))),
			B: uint8(int(lerp(float64(lo.color.B), float64(hi.color.B), t))),
		}
	}
	return gradientStops[len(gradientStops)-1].color
}
