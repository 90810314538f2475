package matte

import (
	"errors"
	"testing"
)

func TestParseKeyColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
	}{
		{"#00FF00", 0, 255, 0},
		{"00ff00", 0, 255, 0},
		{"#0000ff", 0, 0, 255},
		{"#0f0", 0, 255, 0},
		{"  #123456 ", 0x12, 0x34, 0x56},
	}
	for _, tt := range tests {
		k, err := ParseKeyColor(tt.in)
		if err != nil {
			t.Errorf("ParseKeyColor(%q): %v", tt.in, err)
			continue
		}
		if r, g, b := k.RGB(); r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("ParseKeyColor(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestParseKeyColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12345", "#gggggg", "green", "#1234567"} {
		if _, err := ParseKeyColor(in); !errors.Is(err, ErrInvalidKeyColor) {
			t.Errorf("ParseKeyColor(%q) error = %v, want ErrInvalidKeyColor", in, err)
		}
	}
}

func TestKeyColor_LabCache(t *testing.T) {
	k := NewKeyColor(0, 255, 0)
	l1, a1, b1 := k.Lab()
	if l1 < 87 || l1 > 88.5 || a1 > -80 || b1 < 80 {
		t.Errorf("green Lab = (%v, %v, %v)", l1, a1, b1)
	}

	k.Set(0, 0, 255)
	l2, _, b2 := k.Lab()
	if l2 == l1 || b2 >= 0 {
		t.Errorf("Lab not refreshed after Set: (%v, _, %v)", l2, b2)
	}

	// Setting the same value keeps the cache.
	before := k.lab
	k.Set(0, 0, 255)
	if k.lab != before {
		t.Error("Set with an unchanged value recomputed the cache")
	}
}

func TestKeyColor_ZeroValue(t *testing.T) {
	var k KeyColor
	l, a, b := k.Lab()
	if l > 1e-9 || l < -1e-9 || a != 0 || b != 0 {
		t.Errorf("zero KeyColor Lab = (%v, %v, %v), want black", l, a, b)
	}
	if k.Hex() != "#000000" {
		t.Errorf("Hex = %s", k.Hex())
	}
}

func TestKeyColor_Screen(t *testing.T) {
	if KeyGreen.Screen() != ScreenGreen {
		t.Error("green key does not imply a green screen")
	}
	if KeyBlue.Screen() != ScreenBlue {
		t.Error("blue key does not imply a blue screen")
	}
	if NewKeyColor(40, 90, 90).Screen() != ScreenGreen {
		t.Error("tie between green and blue should pick green")
	}
}

func TestKeyColor_Text(t *testing.T) {
	k := NewKeyColor(0x12, 0xab, 0x0f)
	text, err := k.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "#12ab0f" {
		t.Errorf("MarshalText = %s, want #12ab0f", text)
	}

	var back KeyColor
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(k) {
		t.Errorf("UnmarshalText = %s, want %s", back, k)
	}
	if err := back.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText accepted garbage")
	}
}
