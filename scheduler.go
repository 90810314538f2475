package matte

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Resolution is the size a job runs at.
type Resolution int

const (
	// ResolutionPreview runs on the preview thumbnail.
	ResolutionPreview Resolution = iota

	// ResolutionFull runs on the full-size image.
	ResolutionFull
)

// String returns the resolution name.
func (r Resolution) String() string {
	if r == ResolutionFull {
		return "full"
	}
	return "preview"
}

// Job is one requested computation: a generation id, the parameter
// snapshot, and the inputs it runs on.
type Job struct {
	Generation uint64
	Params     Params
	Resolution Resolution
	Source     *Pixmap
	Mattes     Mattes
}

// Runner computes a job. stop reports whether the job has been superseded
// and should be polled between units of work; a run that gives up returns
// ErrSuperseded.
type Runner interface {
	RunJob(job Job, stop func() bool) (*Pixmap, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(job Job, stop func() bool) (*Pixmap, error)

// RunJob implements Runner.
func (f RunnerFunc) RunJob(job Job, stop func() bool) (*Pixmap, error) {
	return f(job, stop)
}

// recycler is implemented by runners that can reuse discarded outputs.
type recycler interface {
	Recycle(*Pixmap)
}

// CommitFunc receives a finished result whose generation was still current.
type CommitFunc func(generation uint64, out *Pixmap)

// State is the scheduler's lifecycle state.
type State int

const (
	// StateIdle means no job is pending or running.
	StateIdle State = iota

	// StateScheduled means a job is pending. The worker takes it next, either
	// right away or as soon as the run in progress returns.
	StateScheduled

	// StateRunning means the worker is computing a job.
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Scheduler coalesces bursts of edits into runs on a single worker.
//
// Every Submit bumps the generation and replaces the pending job; pending
// jobs are not queued, the last one wins. At most one worker goroutine
// exists. When it finishes a job it immediately takes the pending one, if
// any, and otherwise goes idle. A running job whose generation is no longer
// current is told to stop at its next poll, and a result that finishes
// anyway is discarded instead of committed.
//
// Thread safety: all methods are safe for concurrent use.
type Scheduler struct {
	runner Runner
	commit CommitFunc

	gen atomic.Uint64

	mu         sync.Mutex
	pending    *Job
	state      State
	busy       bool          // the worker is inside run
	idle       chan struct{} // closed while the worker is not running
	closed     bool
	display    *Pixmap
	displayGen uint64
	lastErr    error

	runs       atomic.Uint64
	committed  atomic.Uint64
	superseded atomic.Uint64
}

// NewScheduler creates an idle scheduler. commit may be nil.
func NewScheduler(r Runner, commit CommitFunc) *Scheduler {
	idle := make(chan struct{})
	close(idle)
	return &Scheduler{runner: r, commit: commit, idle: idle}
}

// Submit makes job the latest request and returns its generation.
// job.Generation is ignored and assigned here. After Close, Submit does
// nothing and returns the current generation.
func (s *Scheduler) Submit(job Job) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.gen.Load()
	}

	job.Generation = s.gen.Add(1)
	if s.pending != nil {
		Logger().Debug("matte: pending job replaced",
			"old", s.pending.Generation, "new", job.Generation)
	}
	s.pending = &job

	switch s.state {
	case StateIdle:
		s.state = StateScheduled
		s.idle = make(chan struct{})
		go s.work()
	case StateRunning:
		s.state = StateScheduled
	}
	return job.Generation
}

// Invalidate bumps the generation without scheduling a job, so whatever is
// running or pending becomes stale.
func (s *Scheduler) Invalidate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropPendingLocked()
	return s.gen.Add(1)
}

// dropPendingLocked discards the pending job. A state raised to Scheduled
// by that job falls back to Running while the worker is still busy.
func (s *Scheduler) dropPendingLocked() {
	s.pending = nil
	if s.busy && s.state == StateScheduled {
		s.state = StateRunning
	}
}

func (s *Scheduler) work() {
	for {
		s.mu.Lock()
		job := s.pending
		if job == nil {
			s.state = StateIdle
			close(s.idle)
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.state = StateRunning
		s.busy = true
		s.mu.Unlock()

		s.run(*job)

		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}
}

func (s *Scheduler) run(job Job) {
	s.runs.Add(1)
	stop := func() bool { return s.gen.Load() != job.Generation }

	out, err := s.runner.RunJob(job, stop)
	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			s.superseded.Add(1)
			Logger().Debug("matte: run superseded", "generation", job.Generation)
			return
		}
		s.mu.Lock()
		current := s.gen.Load() == job.Generation
		if current {
			s.lastErr = err
		}
		s.mu.Unlock()
		if !current {
			s.superseded.Add(1)
			Logger().Debug("matte: stale run failed", "generation", job.Generation, "error", err)
			return
		}
		Logger().Warn("matte: preview run failed", "generation", job.Generation, "error", err)
		return
	}

	s.mu.Lock()
	if s.gen.Load() != job.Generation {
		s.mu.Unlock()
		s.superseded.Add(1)
		Logger().Debug("matte: stale result discarded", "generation", job.Generation)
		if r, ok := s.runner.(recycler); ok {
			r.Recycle(out)
		}
		return
	}
	s.display = out
	s.displayGen = job.Generation
	s.lastErr = nil
	commit := s.commit
	s.mu.Unlock()

	s.committed.Add(1)
	Logger().Debug("matte: result committed", "generation", job.Generation)
	if commit != nil {
		commit(job.Generation, out)
	}
}

// Wait blocks until the worker is idle or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-idle:
			// A Submit may have restarted the worker right after it went idle.
			if s.State() == StateIdle {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels the running job, drops the pending one and waits for the
// worker to exit. Later submits are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.dropPendingLocked()
	s.gen.Add(1)
	idle := s.idle
	s.mu.Unlock()
	<-idle
}

// Generation returns the latest generation id.
func (s *Scheduler) Generation() uint64 {
	return s.gen.Load()
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Display returns the last committed result and its generation.
// The result is nil before the first commit.
func (s *Scheduler) Display() (*Pixmap, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display, s.displayGen
}

// Err returns the error of the most recent failed run, cleared by the next
// commit. Superseded runs are not errors.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Stats reports how many runs started, how many results were committed and
// how many were dropped as superseded.
func (s *Scheduler) Stats() (runs, committed, superseded uint64) {
	return s.runs.Load(), s.committed.Load(), s.superseded.Load()
}
