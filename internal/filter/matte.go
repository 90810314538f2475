package filter

// CombineMattes applies a garbage sample (subtracted) and then a core sample
// (added) to a raw mask, clamping after each step.
//
// The result feeds the levels adjustment, so mattes act on the raw mask and
// not on the final one.
func CombineMattes(mask, garbage, core float64) float64 {
	mask = clamp01(mask - garbage)
	mask = clamp01(mask + core)
	return mask
}

// Erase scales alpha by an eraser sample, where 255 keeps alpha and 0 clears
// it. The product is rounded.
func Erase(alpha, eraser uint8) uint8 {
	return uint8((uint32(alpha)*uint32(eraser) + 127) / 255)
}

// EraseRow multiplies the alpha of each RGBA pixel in pix by the matching
// sample in eraser. Color channels are untouched.
func EraseRow(pix, eraser []uint8) {
	for i, x := 3, 0; i < len(pix) && x < len(eraser); i, x = i+4, x+1 {
		pix[i] = Erase(pix[i], eraser[x])
	}
}
