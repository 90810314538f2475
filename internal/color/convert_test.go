package color

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func labNear(a, b Lab, tol float64) bool {
	return math.Abs(a.L-b.L) <= tol && math.Abs(a.A-b.A) <= tol && math.Abs(a.B-b.B) <= tol
}

func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"threshold", 0.04045, 0.04045 / 12.92},
		{"just above threshold", 0.04046, math.Pow((0.04046+0.055)/1.055, 2.4)},
		{"mid gray", 0.5, math.Pow((0.5+0.055)/1.055, 2.4)},
		{"overshoot", 1.5, math.Pow((1.5+0.055)/1.055, 2.4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLinear(tt.input)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabFBranchesAgree(t *testing.T) {
	t0 := delta * delta * delta
	cube := math.Cbrt(t0)
	linear := t0/(3*delta*delta) + 4.0/29.0
	if math.Abs(cube-linear) > 1e-12 {
		t.Errorf("branches disagree at delta^3: cbrt=%v linear=%v", cube, linear)
	}
	// Values straddling the breakpoint stay continuous.
	lo := labF(t0 * (1 - 1e-9))
	hi := labF(t0 * (1 + 1e-9))
	if math.Abs(hi-lo) > 1e-6 {
		t.Errorf("labF discontinuous at breakpoint: %v vs %v", lo, hi)
	}
}

func TestToLabKnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    Lab
	}{
		{"black", 0, 0, 0, Lab{0, 0, 0}},
		{"white", 1, 1, 1, Lab{100, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLab(tt.r, tt.g, tt.b)
			if !labNear(got, tt.want, 0.05) {
				t.Errorf("ToLab(%v,%v,%v) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}

	green := ToLab(0, 1, 0)
	if green.L < 87 || green.L > 88.5 || green.A > -80 || green.B < 80 {
		t.Errorf("pure green Lab = %+v, want about (87.7, -86, 83)", green)
	}
}

// TestToLabMatchesColorful cross-checks against go-colorful's sRGB → Lab (D65).
// go-colorful reports L in [0,1] and a/b scaled the same way, hence the ×100.
func TestToLabMatchesColorful(t *testing.T) {
	for _, v := range [][3]float64{
		{0.1, 0.2, 0.3},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.5, 0.5, 0.5},
		{0.9, 0.4, 0.05},
	} {
		l, a, b := colorful.Color{R: v[0], G: v[1], B: v[2]}.Lab()
		want := Lab{L: l * 100, A: a * 100, B: b * 100}
		got := ToLab(v[0], v[1], v[2])
		if !labNear(got, want, 0.05) {
			t.Errorf("ToLab(%v) = %+v, colorful = %+v", v, got, want)
		}
	}
}

func TestToLabDeterministic(t *testing.T) {
	for i := 0; i <= 20; i++ {
		v := float64(i) / 20
		a := ToLab(v, 1-v, v/2)
		b := ToLab(v, 1-v, v/2)
		if a != b {
			t.Fatalf("ToLab not deterministic at %v: %+v vs %+v", v, a, b)
		}
		if math.IsNaN(a.L) || math.IsInf(a.L, 0) {
			t.Fatalf("ToLab(%v) not finite: %+v", v, a)
		}
	}
}

func TestToLabOvershootFinite(t *testing.T) {
	// Un-premultiplying with a small alpha can push components far above 1.
	got := ToLab(40, 3, 0)
	for _, c := range []float64{got.L, got.A, got.B} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Fatalf("ToLab overshoot not finite: %+v", got)
		}
	}
}

func TestDistance(t *testing.T) {
	a := Lab{L: 50, A: 10, B: -10}
	if d := a.Distance(a); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
	b := Lab{L: 53, A: 14, B: -10}
	if d := a.Distance(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if a.Distance(b) != b.Distance(a) {
		t.Error("Distance is not symmetric")
	}
}
