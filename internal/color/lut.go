package color

// linearLUT holds SRGBToLinear(i/255) for every 8-bit input.
// Entries come from the same expression as the direct path, so table lookups
// and SRGBToLinear agree exactly.
var linearLUT [256]float64

func init() {
	for i := range linearLUT {
		linearLUT[i] = SRGBToLinear(float64(i) / 255.0)
	}
}

// SRGBToLinear8 decodes an 8-bit sRGB component using the lookup table.
//
// Example:
//
//	l := SRGBToLinear8(128) // ~0.2159 (not 0.5!)
func SRGBToLinear8(s uint8) float64 {
	return linearLUT[s]
}
