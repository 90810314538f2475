package matte

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/matte/internal/filter"
	intImage "github.com/gogpu/matte/internal/image"
)

// Mode selects which family of stages a run applies.
type Mode int

const (
	// ModeChroma keys on color distance, optionally followed by alpha
	// extraction and despill.
	ModeChroma Mode = iota

	// ModeAlphaExtract recovers partial alpha without a color key.
	ModeAlphaExtract

	// ModeDespill only suppresses spill.
	ModeDespill
)

// Screen is the backing color channel used by despill.
type Screen int

const (
	// ScreenGreen despills and extracts on the green channel.
	ScreenGreen Screen = iota

	// ScreenBlue despills and extracts on the blue channel.
	ScreenBlue
)

// DespillMethod selects how the spill limit is derived.
type DespillMethod int

const (
	// DespillAverage limits spill to the mean of the other two channels.
	DespillAverage DespillMethod = iota

	// DespillDoubleRed weights red twice.
	DespillDoubleRed

	// DespillDoubleAverage weights the non-red channel twice.
	DespillDoubleAverage

	// DespillLimit uses the non-red channel directly.
	DespillLimit
)

// View selects the backdrop a preview is composed over.
type View int

const (
	// ViewChecker composes over a 20px gray checkerboard.
	ViewChecker View = iota

	// ViewBlack composes over opaque black.
	ViewBlack

	// ViewWhite composes over opaque white.
	ViewWhite

	// ViewAlpha shows the alpha channel as grayscale.
	ViewAlpha
)

var (
	modeNames   = []string{"chroma", "alpha_extract", "despill"}
	screenNames = []string{"green", "blue"}
	methodNames = []string{"average", "double_red", "double_average", "limit"}
	viewNames   = []string{"checker", "black", "white", "alpha"}

	// Extra spellings accepted on input.
	modeAliases   = map[string]int{"chromakey": 0, "key": 0, "alpha": 1, "extract": 1}
	methodAliases = map[string]int{"doublekey": 1}
)

var folder = cases.Fold()

// normalizeName folds case and drops separators so that "Double Red",
// "double-red" and "DOUBLE_RED" compare equal.
func normalizeName(s string) string {
	s = folder.String(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func parseName(s string, names []string, aliases map[string]int) (int, bool) {
	n := normalizeName(s)
	for i, name := range names {
		if normalizeName(name) == n {
			return i, true
		}
	}
	if i, ok := aliases[n]; ok {
		return i, true
	}
	return 0, false
}

func nameOf(i int, names []string) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// ParseMode parses a mode name such as "chroma" or "AlphaExtract".
func ParseMode(s string) (Mode, error) {
	i, ok := parseName(s, modeNames, modeAliases)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return Mode(i), nil
}

// ParseScreen parses "green" or "blue".
func ParseScreen(s string) (Screen, error) {
	i, ok := parseName(s, screenNames, nil)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownScreen, s)
	}
	return Screen(i), nil
}

// ParseDespillMethod parses a despill method name such as "average" or
// "Double Red".
func ParseDespillMethod(s string) (DespillMethod, error) {
	i, ok := parseName(s, methodNames, methodAliases)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
	return DespillMethod(i), nil
}

// ParseView parses a view name such as "checker" or "Alpha".
func ParseView(s string) (View, error) {
	i, ok := parseName(s, viewNames, nil)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
	return View(i), nil
}

func (m Mode) String() string          { return nameOf(int(m), modeNames) }
func (s Screen) String() string        { return nameOf(int(s), screenNames) }
func (m DespillMethod) String() string { return nameOf(int(m), methodNames) }
func (v View) String() string          { return nameOf(int(v), viewNames) }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Screen) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Screen) UnmarshalText(text []byte) error {
	v, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m DespillMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DespillMethod) UnmarshalText(text []byte) error {
	v, err := ParseDespillMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v View) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *View) UnmarshalText(text []byte) error {
	p, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

func (s Screen) filter() filter.Screen {
	if s == ScreenBlue {
		return filter.ScreenBlue
	}
	return filter.ScreenGreen
}

func (m DespillMethod) filter() filter.Method {
	switch m {
	case DespillDoubleRed:
		return filter.DoubleRed
	case DespillDoubleAverage:
		return filter.DoubleAverage
	case DespillLimit:
		return filter.Limit
	default:
		return filter.Average
	}
}

func (v View) backdrop() intImage.Backdrop {
	switch v {
	case ViewBlack:
		return intImage.BackdropBlack
	case ViewWhite:
		return intImage.BackdropWhite
	case ViewAlpha:
		return intImage.BackdropAlpha
	default:
		return intImage.BackdropChecker
	}
}

// Params is a complete snapshot of the processing parameters.
//
// A Params value is self-contained: the scheduler copies it on submit and
// the worker never sees later edits.
type Params struct {
	Mode Mode `yaml:"mode"`

	// Stage switches used in ModeChroma.
	ApplyChroma  bool `yaml:"apply_chroma"`
	ApplyAlpha   bool `yaml:"apply_alpha"`
	ApplyDespill bool `yaml:"apply_despill"`

	// AlphaEnabled switches extraction on in ModeAlphaExtract.
	AlphaEnabled bool `yaml:"alpha_enabled"`

	// Keyer.
	KeyColor   KeyColor `yaml:"key_color"`
	Lower      float64  `yaml:"lower"`
	Upper      float64  `yaml:"upper"`
	Shadows    float64  `yaml:"shadows"`
	Highlights float64  `yaml:"highlights"`
	Invert     bool     `yaml:"invert"`
	MaskOnly   bool     `yaml:"mask_only"`

	// Despiller.
	DespillScreen Screen        `yaml:"despill_screen"`
	DespillMethod DespillMethod `yaml:"despill_method"`
	PreserveLuma  bool          `yaml:"preserve_luma"`

	// Alpha extractor.
	Brightness float64 `yaml:"brightness"`
	Softness   float64 `yaml:"softness"`
}

// DefaultParams returns the parameters of a fresh session: chroma key on
// #00FF00 with a 5..25 band and neutral levels, green average despill,
// backing brightness 255 and hard extraction edges.
func DefaultParams() Params {
	return Params{
		Mode:          ModeChroma,
		ApplyChroma:   true,
		KeyColor:      KeyGreen,
		Lower:         5,
		Upper:         25,
		Shadows:       100,
		Highlights:    100,
		DespillScreen: ScreenGreen,
		DespillMethod: DespillAverage,
		Brightness:    255,
	}
}

// Degenerate reports whether the tolerance band is empty. A degenerate band
// disables keying instead of failing.
func (p Params) Degenerate() bool {
	return p.Upper <= p.Lower
}

// Validate reports enum fields holding values no name maps to. A
// degenerate band is not an error; see Degenerate.
func (p Params) Validate() error {
	if p.Mode < ModeChroma || p.Mode > ModeDespill {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(p.Mode))
	}
	if p.DespillScreen != ScreenGreen && p.DespillScreen != ScreenBlue {
		return fmt.Errorf("%w: %d", ErrUnknownScreen, int(p.DespillScreen))
	}
	if p.DespillMethod < DespillAverage || p.DespillMethod > DespillLimit {
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(p.DespillMethod))
	}
	return nil
}

// Stages lists the stages a run with these parameters applies, in order.
// The eraser is not listed; it always runs last when present.
func (p Params) Stages() []string {
	var s []string
	if p.keys() {
		s = append(s, "key")
	}
	if p.extracts() {
		s = append(s, "extract")
	}
	if p.despills() {
		s = append(s, "despill")
	}
	return s
}

func (p Params) keys() bool {
	return p.Mode == ModeChroma && p.ApplyChroma
}

func (p Params) extracts() bool {
	switch p.Mode {
	case ModeChroma:
		return p.ApplyAlpha && !p.MaskOnly
	case ModeAlphaExtract:
		return p.AlphaEnabled
	default:
		return false
	}
}

func (p Params) despills() bool {
	switch p.Mode {
	case ModeChroma:
		return p.ApplyDespill && !p.MaskOnly
	case ModeDespill:
		return true
	default:
		return false
	}
}

func (p Params) keyer() *filter.Keyer {
	return &filter.Keyer{
		Key:        p.KeyColor.labValue(),
		Lower:      p.Lower,
		Upper:      p.Upper,
		Shadows:    p.Shadows,
		Highlights: p.Highlights,
		Invert:     p.Invert,
		MaskOnly:   p.MaskOnly,
	}
}

func (p Params) extractor() filter.Extractor {
	return filter.Extractor{
		Screen:     p.KeyColor.Screen().filter(),
		Brightness: p.Brightness,
		Softness:   p.Softness,
	}
}

func (p Params) despiller() filter.Despiller {
	return filter.Despiller{
		Screen:       p.DespillScreen.filter(),
		Method:       p.DespillMethod.filter(),
		PreserveLuma: p.PreserveLuma,
	}
}

// LoadParams reads a YAML preset. Fields missing from the file keep their
// DefaultParams values.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Params{}, fmt.Errorf("matte: read preset: %w", err)
	}
	return ParseParams(data)
}

// ParseParams decodes a YAML preset. Fields missing from the document keep
// their DefaultParams values. Unknown fields are rejected.
func ParseParams(data []byte) (Params, error) {
	p := DefaultParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if len(bytes.TrimSpace(data)) == 0 {
			return p, nil
		}
		return Params{}, fmt.Errorf("matte: parse preset: %w", err)
	}
	return p, nil
}

// EncodeYAML encodes the parameters as a YAML preset.
func (p Params) EncodeYAML() ([]byte, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("matte: encode preset: %w", err)
	}
	return out, nil
}
