package filter

import "math"

// Rec. 709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Screen identifies the backing color channel.
type Screen int

const (
	// ScreenGreen is a green backing; G is the spill channel.
	ScreenGreen Screen = iota

	// ScreenBlue is a blue backing; B is the spill channel.
	ScreenBlue
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenGreen:
		return "green"
	case ScreenBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// ScreenFor picks the screen channel for a key color: green unless blue is
// strictly stronger.
func ScreenFor(r, g, b uint8) Screen {
	if g >= b {
		return ScreenGreen
	}
	return ScreenBlue
}

// Method selects how the spill limit is built from the non-spill channels.
type Method int

const (
	// Average limits spill to the mean of the other two channels.
	Average Method = iota

	// DoubleRed weights red twice against the remaining channel.
	DoubleRed

	// DoubleAverage weights the remaining channel twice against red.
	DoubleAverage

	// Limit uses the remaining non-red channel as is.
	Limit
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case Average:
		return "average"
	case DoubleRed:
		return "double_red"
	case DoubleAverage:
		return "double_average"
	case Limit:
		return "limit"
	default:
		return "unknown"
	}
}

// Despiller suppresses backing-color spill by clamping the spill channel.
//
// For a green screen the limit is built from R and B; for a blue screen from
// R and G. Alpha is never read or written, so the despiller works on
// whatever association the buffer carries.
type Despiller struct {
	Screen       Screen
	Method       Method
	PreserveLuma bool
}

// limit returns the spill ceiling from red and the remaining channel o.
func (d Despiller) limit(r, o float64) float64 {
	switch d.Method {
	case DoubleRed:
		return (2*r + o) / 3
	case DoubleAverage:
		return (2*o + r) / 3
	case Limit:
		return o
	default:
		return (r + o) / 2
	}
}

// Apply despills one color in [0, 1]. The result is not clamped.
func (d Despiller) Apply(r, g, b float64) (float64, float64, float64) {
	or, og, ob := r, g, b

	if d.Screen == ScreenBlue {
		if l := d.limit(r, g); b > l {
			b = l
		}
	} else {
		if l := d.limit(r, b); g > l {
			g = l
		}
	}

	if d.PreserveLuma {
		luma := math.Abs(or-r)*lumaR + math.Abs(og-g)*lumaG + math.Abs(ob-b)*lumaB
		r += luma
		g += luma
		b += luma
	}
	return r, g, b
}

// Row despills one row of RGBA pixels in place.
func (d Despiller) Row(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b := d.Apply(
			float64(pix[i])/255,
			float64(pix[i+1])/255,
			float64(pix[i+2])/255,
		)
		pix[i] = toByte(r)
		pix[i+1] = toByte(g)
		pix[i+2] = toByte(b)
	}
}

// toByte converts a [0, 1] channel to 8 bits, rounding to nearest and
// clamping out-of-range values.
func toByte(v float64) uint8 {
	v = v*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
