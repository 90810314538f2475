package filter

import "math"

// Extractor recovers partial alpha from pixels where the screen channel
// dominates, treating the darkening of that channel relative to the clean
// backing as coverage by a semi-transparent foreground.
//
// Only the screen channel is decontaminated. The other two channels keep
// their stored values.
type Extractor struct {
	// Screen is the channel compared against the backing.
	Screen Screen

	// Brightness is the screen channel value of clean backing, 0-255.
	Brightness float64

	// Softness widens the alpha falloff, 0-100. 0 keeps it linear.
	Softness float64
}

// Dominance thresholds for treating a pixel as backing-influenced.
const (
	dominanceMargin = 0.05
	dominanceFloor  = 0.1
	minBackground   = 0.01
	minCoverage     = 0.01
)

func (e Extractor) background() float64 {
	return max(e.Brightness/255, minBackground)
}

// Dominant reports whether the screen channel of a [0, 1] color clearly
// exceeds the other two.
func (e Extractor) Dominant(r, g, b float64) bool {
	key, o1, o2 := g, r, b
	if e.Screen == ScreenBlue {
		key, o1, o2 = b, r, g
	}
	return key > max(o1, o2)+dominanceMargin && key > dominanceFloor
}

// Alpha returns the recovered coverage in [0, 1] for a screen channel value.
func (e Extractor) Alpha(key float64) float64 {
	raw := 1 - key/e.background()
	if e.Softness > 0 && raw > 0 && raw < 1 {
		raw = math.Pow(raw, 1/(1+e.Softness/100))
	}
	return clamp01(raw)
}

// Pixel extracts one RGBA pixel. Pixels without a dominant screen channel
// are returned unchanged.
func (e Extractor) Pixel(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	if !e.Dominant(rf, gf, bf) {
		return r, g, b, a
	}

	key := gf
	if e.Screen == ScreenBlue {
		key = bf
	}
	alpha := e.Alpha(key)
	outA := uint8(alpha*float64(a) + 0.5)

	if alpha <= minCoverage {
		return 0, 0, 0, outA
	}

	fg := toByte(clamp01((key - (1-alpha)*e.background()) / alpha))
	if e.Screen == ScreenBlue {
		return r, g, fg, outA
	}
	return r, fg, b, outA
}

// Row extracts one row of RGBA pixels in place.
func (e Extractor) Row(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = e.Pixel(pix[i], pix[i+1], pix[i+2], pix[i+3])
	}
}
