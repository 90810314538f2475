package matte

// PipelineOption configures a Pipeline during creation.
// Use functional options to customize Pipeline behavior.
//
// Example:
//
//	// Defaults: GOMAXPROCS workers, 16-row bands
//	p := matte.NewPipeline()
//
//	// Single-threaded, finer cancellation
//	p := matte.NewPipeline(matte.WithWorkers(1), matte.WithBandHeight(4))
type PipelineOption func(*pipelineOptions)

// pipelineOptions holds optional configuration for Pipeline creation.
type pipelineOptions struct {
	workers    int
	bandHeight int
	pooled     int
}

// defaultPipelineOptions returns the default pipeline options.
func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		workers:    0, // GOMAXPROCS
		bandHeight: 16,
		pooled:     4,
	}
}

// WithWorkers sets how many goroutines share the pixel work of one run.
// Values at or below zero use GOMAXPROCS.
func WithWorkers(n int) PipelineOption {
	return func(o *pipelineOptions) {
		o.workers = n
	}
}

// WithBandHeight sets how many rows are processed between cancellation
// checks. Smaller bands abandon stale work sooner at a small scheduling cost.
// Values at or below zero keep the default.
func WithBandHeight(rows int) PipelineOption {
	return func(o *pipelineOptions) {
		if rows > 0 {
			o.bandHeight = rows
		}
	}
}

// WithBufferPool sets how many recycled output buffers of each size the
// pipeline keeps. Zero disables the limit.
func WithBufferPool(perSize int) PipelineOption {
	return func(o *pipelineOptions) {
		if perSize >= 0 {
			o.pooled = perSize
		}
	}
}

// SessionOption configures a Session during creation.
//
// Example:
//
//	s := matte.NewSession(
//	    matte.WithPreviewSize(600, 600),
//	    matte.WithCommit(func(gen uint64, out *matte.Pixmap) {
//	        canvas.Update(out)
//	    }),
//	)
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	previewWidth  int
	previewHeight int
	commit        CommitFunc
	pipeline      []PipelineOption
}

// Default preview box.
const (
	DefaultPreviewWidth  = 400
	DefaultPreviewHeight = 400
)

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		previewWidth:  DefaultPreviewWidth,
		previewHeight: DefaultPreviewHeight,
	}
}

// WithPreviewSize sets the box the preview thumbnail is fitted into.
func WithPreviewSize(width, height int) SessionOption {
	return func(o *sessionOptions) {
		if width > 0 && height > 0 {
			o.previewWidth = width
			o.previewHeight = height
		}
	}
}

// WithCommit sets the callback that receives each committed preview.
// It runs on the worker goroutine and must not block for long.
func WithCommit(fn CommitFunc) SessionOption {
	return func(o *sessionOptions) {
		o.commit = fn
	}
}

// WithPipelineOptions passes options to the session's pipeline.
func WithPipelineOptions(opts ...PipelineOption) SessionOption {
	return func(o *sessionOptions) {
		o.pipeline = append(o.pipeline, opts...)
	}
}
