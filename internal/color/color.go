// Package color converts 8-bit sRGB samples to CIE L*a*b* for key distance.
//
// The conversion chain is sRGB → linear RGB (sRGB EOTF) → CIE XYZ (Rec.709
// primaries, D65 white, scaled to Y=100) → L*a*b*. The reference white and
// matrix are fixed; no other color management is performed.
package color

import "github.com/golang/geo/r3"

// Lab is a CIE L*a*b* color. L is in [0,100] for in-gamut input; A and B are
// unbounded chroma axes.
type Lab struct {
	L, A, B float64
}

func (c Lab) vector() r3.Vector {
	return r3.Vector{X: c.L, Y: c.A, Z: c.B}
}

// Distance returns the Euclidean (CIE76) distance between c and o.
func (c Lab) Distance(o Lab) float64 {
	return c.vector().Sub(o.vector()).Norm()
}
