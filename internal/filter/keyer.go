package filter

import "github.com/gogpu/matte/internal/color"

// Keyer derives an alpha mask from each pixel's L*a*b* distance to a key
// color.
//
// Distances below Lower are fully keyed out, distances at or above Upper are
// kept, and the band in between ramps linearly. When Upper <= Lower the band
// is empty and every raw mask is 1.
type Keyer struct {
	// Key is the backing color in L*a*b*.
	Key color.Lab

	// Lower and Upper bound the tolerance band in Lab distance units.
	Lower, Upper float64

	// Shadows and Highlights are levels percentages, nominally 0-200.
	// 100/100 leaves the mask unchanged.
	Shadows, Highlights float64

	// Invert flips the final mask.
	Invert bool

	// MaskOnly replaces the pixel with an opaque gray rendering of the mask.
	MaskOnly bool
}

// Distance returns the L*a*b* distance between the key and a stored pixel.
//
// Stored color is treated as associated with alpha and divided by it first.
// A zero-alpha pixel is keyed on its raw stored color.
func (k *Keyer) Distance(r, g, b, a uint8) float64 {
	var lab color.Lab
	switch a {
	case 0, 255:
		lab = color.ToLab8(r, g, b)
	default:
		af := float64(a)
		lab = color.ToLab(float64(r)/af, float64(g)/af, float64(b)/af)
	}
	return lab.Distance(k.Key)
}

// Degenerate reports whether the tolerance band is empty.
func (k *Keyer) Degenerate() bool {
	return k.Upper <= k.Lower
}

// RawMask maps a distance onto the tolerance band.
func (k *Keyer) RawMask(distance float64) float64 {
	if k.Degenerate() {
		return 1
	}
	switch {
	case distance < k.Lower:
		return 0
	case distance >= k.Upper:
		return 1
	default:
		return (distance - k.Lower) / (k.Upper - k.Lower)
	}
}

// Levels applies the shadows/highlights adjustment and clamps to [0, 1].
// Percentages above 100 push an end of the range past 0 or 1 before the
// clamp, which hardens the cutoff.
func (k *Keyer) Levels(mask float64) float64 {
	return clamp01(k.Shadows*0.01*(k.Highlights*0.01*mask-1) + 1)
}

// Mask runs the full per-pixel mask computation. garbage and core are matte
// samples in [0, 1]; pass 0 when a matte is absent.
func (k *Keyer) Mask(r, g, b, a uint8, garbage, core float64) float64 {
	mask := k.RawMask(k.Distance(r, g, b, a))
	mask = CombineMattes(mask, garbage, core)
	mask = k.Levels(mask)
	if k.Invert {
		mask = 1 - mask
	}
	return mask
}

// Row keys one row of RGBA pixels in place.
//
// garbage and core are optional single-channel matte rows of the same width;
// nil means no matte.
func (k *Keyer) Row(pix, garbage, core []uint8) {
	for i, x := 0, 0; i+3 < len(pix); i, x = i+4, x+1 {
		var gs, cs float64
		if garbage != nil {
			gs = float64(garbage[x]) / 255
		}
		if core != nil {
			cs = float64(core[x]) / 255
		}

		mask := k.Mask(pix[i], pix[i+1], pix[i+2], pix[i+3], gs, cs)

		if k.MaskOnly {
			v := uint8(mask * 255)
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
			continue
		}
		pix[i+3] = uint8(float64(pix[i+3]) * mask)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
