package color

import "math"

// D65 reference white, Y normalized to 100.
const (
	WhiteX = 95.0489
	WhiteY = 100.0
	WhiteZ = 108.8840
)

// delta is the CIE Lab linear-segment breakpoint 6/29.
const delta = 6.0 / 29.0

// SRGBToLinear decodes one sRGB component.
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4).
// Inputs above 1 (un-premultiplied overshoot) follow the power branch.
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToXYZ maps linear Rec.709 RGB to CIE XYZ scaled by 100.
func LinearToXYZ(r, g, b float64) (x, y, z float64) {
	x = (r*0.4124 + g*0.3576 + b*0.1805) * 100.0
	y = (r*0.2126 + g*0.7152 + b*0.0722) * 100.0
	z = (r*0.0193 + g*0.1192 + b*0.9505) * 100.0
	return x, y, z
}

// labF is the CIE Lab companding function.
func labF(t float64) float64 {
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// XYZToLab converts CIE XYZ (Y=100 scale) to L*a*b* against the D65 white.
func XYZToLab(x, y, z float64) Lab {
	fx := labF(x / WhiteX)
	fy := labF(y / WhiteY)
	fz := labF(z / WhiteZ)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// ToLab converts unassociated sRGB components to Lab. Components are
// nominally in [0,1] but any non-negative value yields a finite result.
func ToLab(r, g, b float64) Lab {
	return linearToLab(SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(b))
}

// ToLab8 converts 8-bit sRGB to Lab through the decode table.
// The result is bit-identical to ToLab(r/255, g/255, b/255).
func ToLab8(r, g, b uint8) Lab {
	return linearToLab(linearLUT[r], linearLUT[g], linearLUT[b])
}

func linearToLab(r, g, b float64) Lab {
	return XYZToLab(LinearToXYZ(r, g, b))
}
