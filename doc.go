// Package matte pulls alpha mattes from chroma-key footage.
//
// # Overview
//
// matte keys a solid-color backing out of an image, suppresses backing
// color spill on the foreground, and recovers partial transparency for
// shadows and smoke that a hard key would misclassify. It is a pure Go
// library with no cgo and no GPU requirement.
//
// # Quick Start
//
//	import "github.com/gogpu/matte"
//
//	src, err := matte.Load("greenscreen.png")
//	if err != nil {
//	    return err
//	}
//
//	p := matte.NewPipeline()
//	defer p.Close()
//
//	params := matte.DefaultParams()
//	params.ApplyDespill = true
//
//	out, err := p.Process(ctx, src, params, matte.Mattes{})
//	if err != nil {
//	    return err
//	}
//	out.SavePNG("keyed.png")
//
// # Stages
//
// A run applies up to four stages per pixel, always in this order:
//   - Keyer: L*a*b* distance to the key color, tolerance band, garbage and
//     core mattes, levels, invert
//   - Alpha extraction: partial alpha from the darkening of the screen channel
//   - Despill: clamp of the screen channel against the other two
//   - Eraser: multiply alpha by a hand-painted mask
//
// Which stages run is decided by [Params.Mode] and the stage flags. The
// eraser always runs when an eraser matte is given.
//
// # Interactive Use
//
// [Session] holds a loaded image, its preview thumbnail and the eraser
// masks. Parameter edits go through a [Scheduler], which coalesces bursts of
// edits into one run on a single worker and drops results that a newer edit
// has made stale. Full-resolution saves bypass the scheduler and cannot be
// cancelled.
//
// # Pixel Format
//
// Buffers are 8-bit RGBA, 4 bytes per pixel, row-major with no padding.
// The keyer divides stored color by alpha before measuring distance, so a
// pixel with partial alpha is keyed on its unassociated color. Pixels with
// zero alpha are keyed on their raw stored color.
package matte

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
