package parallel

import "sync/atomic"

// DefaultBandHeight is the number of rows per band when the caller passes 0.
const DefaultBandHeight = 16

// BandCount returns how many bands of bandHeight rows cover height rows.
func BandCount(height, bandHeight int) int {
	if height <= 0 {
		return 0
	}
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}
	return (height + bandHeight - 1) / bandHeight
}

// Bands splits rows [0, height) into bands and runs fn on each in parallel.
//
// stop, when non-nil, is called before every band. Once it returns true no
// further band starts, bands already running complete, and Bands returns
// false. A nil stop never aborts.
func (p *Pool) Bands(height, bandHeight int, stop func() bool, fn func(y0, y1 int)) bool {
	if height <= 0 {
		return stop == nil || !stop()
	}
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}

	var aborted atomic.Bool
	work := make([]func(), 0, BandCount(height, bandHeight))
	for y0 := 0; y0 < height; y0 += bandHeight {
		y1 := min(y0+bandHeight, height)
		work = append(work, func() {
			if aborted.Load() {
				return
			}
			if stop != nil && stop() {
				aborted.Store(true)
				return
			}
			fn(y0, y1)
		})
	}

	p.ExecuteAll(work)
	return !aborted.Load()
}
