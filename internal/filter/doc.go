// Package filter provides the per-pixel stages of the keying pipeline.
//
// This package contains:
//   - Keyer: Lab-distance chroma key with tolerance band, levels and invert
//   - Despiller: spill-channel clamp with optional luminance restore
//   - Extractor: partial-alpha recovery for darkened backing pixels
//   - Matte combination: garbage/core adjustment and eraser multiply
//
// Every stage works in place on a row of 8-bit RGBA bytes (4 bytes per
// pixel, no padding). Rows are independent, so callers can fan bands of rows
// out over goroutines without synchronization.
//
// Stages never fail. Degenerate input such as zero alpha or an empty
// tolerance band has defined output.
package filter
