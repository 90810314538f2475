package matte

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/matte/internal/color"
	"github.com/gogpu/matte/internal/filter"
)

// KeyColor is the backing color being keyed, with its L*a*b* value cached.
//
// The cache is refreshed whenever the RGB value changes through Set or a
// constructor, and only then. The zero value is black.
type KeyColor struct {
	r, g, b uint8
	lab     color.Lab
	cached  bool
}

// Common backing colors.
var (
	KeyGreen = NewKeyColor(0, 255, 0)
	KeyBlue  = NewKeyColor(0, 0, 255)
)

// NewKeyColor creates a key color from 8-bit RGB.
func NewKeyColor(r, g, b uint8) KeyColor {
	var k KeyColor
	k.Set(r, g, b)
	return k
}

// ParseKeyColor parses "#rgb" or "#rrggbb". The leading '#' is optional.
func ParseKeyColor(s string) (KeyColor, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return KeyColor{}, fmt.Errorf("%w: %q", ErrInvalidKeyColor, s)
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return KeyColor{}, fmt.Errorf("%w: %q", ErrInvalidKeyColor, s)
	}
	r, g, b := c.RGB255()
	return NewKeyColor(r, g, b), nil
}

// MustParseKeyColor is like ParseKeyColor but panics on error.
func MustParseKeyColor(s string) KeyColor {
	k, err := ParseKeyColor(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Set changes the RGB value. The Lab cache is recomputed only when the
// value actually differs.
func (k *KeyColor) Set(r, g, b uint8) {
	if k.cached && k.r == r && k.g == g && k.b == b {
		return
	}
	k.r, k.g, k.b = r, g, b
	k.lab = color.ToLab8(r, g, b)
	k.cached = true
}

// RGB returns the 8-bit components.
func (k KeyColor) RGB() (r, g, b uint8) {
	return k.r, k.g, k.b
}

// Lab returns the cached L*a*b* components.
func (k KeyColor) Lab() (l, a, b float64) {
	lab := k.labValue()
	return lab.L, lab.A, lab.B
}

func (k KeyColor) labValue() color.Lab {
	if !k.cached {
		return color.ToLab8(k.r, k.g, k.b)
	}
	return k.lab
}

// Screen returns the screen channel the key implies: green unless blue is
// strictly stronger.
func (k KeyColor) Screen() Screen {
	if filter.ScreenFor(k.r, k.g, k.b) == filter.ScreenBlue {
		return ScreenBlue
	}
	return ScreenGreen
}

// Hex returns the color as "#rrggbb".
func (k KeyColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", k.r, k.g, k.b)
}

// String implements fmt.Stringer.
func (k KeyColor) String() string {
	return k.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (k KeyColor) MarshalText() ([]byte, error) {
	return []byte(k.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *KeyColor) UnmarshalText(text []byte) error {
	parsed, err := ParseKeyColor(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Equal reports whether two key colors have the same RGB value.
func (k KeyColor) Equal(o KeyColor) bool {
	return k.r == o.r && k.g == o.g && k.b == o.b
}
