package matte

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/matte/internal/filter"
	intImage "github.com/gogpu/matte/internal/image"
	"github.com/gogpu/matte/internal/parallel"
)

// Mattes are the optional single-channel inputs of a run. Nil fields are
// absent. Mattes whose size differs from the source are resampled.
type Mattes struct {
	Garbage *Matte
	Core    *Matte
	Eraser  *Matte
}

// Pipeline runs the keying stages over a pixmap.
//
// Rows are processed in bands spread over a worker pool. Every stage is a
// per-pixel map, so bands never share state; the only cross-band signal is
// the stop check consulted before each band starts.
//
// Thread safety: a Pipeline may run several jobs concurrently.
type Pipeline struct {
	pool       *parallel.Pool
	bandHeight int
	buffers    *intImage.Pool
}

// NewPipeline creates a pipeline with its own worker pool.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	o := defaultPipelineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{
		pool:       parallel.NewPool(o.workers),
		bandHeight: o.bandHeight,
		buffers:    intImage.NewPool(o.pooled),
	}
}

// Close stops the worker pool. Runs started afterwards execute on the
// calling goroutine.
func (p *Pipeline) Close() {
	p.pool.Close()
}

// Run processes src with params and returns a new pixmap.
//
// stop, when non-nil, is polled before each band of rows. Once it reports
// true the run is abandoned and Run returns ErrSuperseded with no output.
// A nil stop makes the run non-cancellable.
func (p *Pipeline) Run(src *Pixmap, params Params, mattes Mattes, stop func() bool) (*Pixmap, error) {
	if src.Empty() {
		return nil, ErrEmptyImage
	}
	if stop != nil && stop() {
		return nil, ErrSuperseded
	}

	w, h := src.width, src.height
	garbage := fitMatte(mattes.Garbage, w, h)
	core := fitMatte(mattes.Core, w, h)
	eraser := fitMatte(mattes.Eraser, w, h)

	var keyer *filter.Keyer
	if params.keys() {
		keyer = params.keyer()
		if keyer.Degenerate() {
			Logger().Warn("matte: empty tolerance band, keying disabled",
				"lower", params.Lower, "upper", params.Upper)
		}
	}
	extract, extractor := params.extracts(), params.extractor()
	despill, despiller := params.despills(), params.despiller()

	out := &Pixmap{width: w, height: h, data: p.buffers.Get(len(src.data))}

	start := time.Now()
	ok := p.pool.Bands(h, p.bandHeight, stop, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := out.Row(y)
			copy(row, src.Row(y))
			if keyer != nil {
				keyer.Row(row, matteRow(garbage, y), matteRow(core, y))
			}
			if extract {
				extractor.Row(row)
			}
			if despill {
				despiller.Row(row)
			}
			if eraser != nil {
				filter.EraseRow(row, eraser.Row(y))
			}
		}
	})
	if !ok {
		p.Recycle(out)
		return nil, ErrSuperseded
	}

	Logger().Debug("matte: pipeline run",
		"width", w, "height", h,
		"mode", params.Mode.String(),
		"stages", params.Stages(),
		"eraser", eraser != nil,
		"elapsed", time.Since(start))
	return out, nil
}

// Process is Run with cancellation driven by ctx. A cancelled run returns
// the context's cause.
func (p *Pipeline) Process(ctx context.Context, src *Pixmap, params Params, mattes Mattes) (*Pixmap, error) {
	out, err := p.Run(src, params, mattes, func() bool { return ctx.Err() != nil })
	if errors.Is(err, ErrSuperseded) {
		return nil, fmt.Errorf("matte: process: %w", context.Cause(ctx))
	}
	return out, err
}

// RunJob implements Runner.
func (p *Pipeline) RunJob(job Job, stop func() bool) (*Pixmap, error) {
	return p.Run(job.Source, job.Params, job.Mattes, stop)
}

// Recycle hands an output pixmap's memory back for reuse by later runs.
// The pixmap must not be used afterwards.
func (p *Pipeline) Recycle(px *Pixmap) {
	if px == nil {
		return
	}
	p.buffers.Put(px.data)
	px.data = nil
	px.width, px.height = 0, 0
}

func fitMatte(m *Matte, width, height int) *Matte {
	if m == nil || m.width <= 0 || m.height <= 0 {
		return nil
	}
	return m.Resized(width, height)
}

func matteRow(m *Matte, y int) []uint8 {
	if m == nil {
		return nil
	}
	return m.Row(y)
}
