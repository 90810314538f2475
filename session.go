package matte

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	intImage "github.com/gogpu/matte/internal/image"
)

// Session is the working state of an interactive keying tool: the loaded
// image, its preview thumbnail, the eraser masks at both sizes, optional
// garbage and core mattes, and the current parameters.
//
// Every edit schedules a preview run on the session's Scheduler. Only the
// newest edit's result reaches the commit callback. Saves run at full
// resolution on the calling goroutine and are never cancelled.
//
// Thread safety: all methods are safe for concurrent use.
type Session struct {
	opts     sessionOptions
	pipeline *Pipeline
	sched    *Scheduler

	mu            sync.Mutex
	full          *Pixmap
	preview       *Pixmap
	fullEraser    *Matte
	previewEraser *Matte
	garbage       *Matte
	core          *Matte
	previewMattes Mattes // garbage and core fitted to the preview
	params        Params
}

// NewSession creates a session with no image and default parameters.
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Session{
		opts:     o,
		pipeline: NewPipeline(o.pipeline...),
		params:   DefaultParams(),
	}
	s.sched = NewScheduler(s.pipeline, o.commit)
	return s
}

// Close stops the scheduler and the pipeline workers.
func (s *Session) Close() {
	s.sched.Close()
	s.pipeline.Close()
}

// Load reads an image file and makes it the working image. On error the
// previous image, masks and preview are kept.
func (s *Session) Load(path string) error {
	px, err := Load(path)
	if err != nil {
		return err
	}
	if _, err := s.SetImage(px); err != nil {
		return err
	}
	Logger().Info("matte: image loaded", "path", path, "width", px.width, "height", px.height)
	return nil
}

// SetImage makes px the working image. The preview thumbnail and both
// eraser masks are rebuilt, and a preview run is scheduled.
func (s *Session) SetImage(px *Pixmap) (uint64, error) {
	if px.Empty() {
		return 0, ErrEmptyImage
	}
	preview := px.Thumbnail(s.opts.previewWidth, s.opts.previewHeight)

	s.mu.Lock()
	s.full = px
	s.preview = preview
	s.fullEraser = NewEraser(px.width, px.height)
	s.previewEraser = NewEraser(preview.width, preview.height)
	s.refitMattesLocked()
	job := s.jobLocked()
	s.mu.Unlock()

	return s.sched.Submit(job), nil
}

// Image returns the full-size working image, or nil.
func (s *Session) Image() *Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}

// Preview returns the preview thumbnail, or nil.
func (s *Session) Preview() *Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Params returns a copy of the current parameters.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams replaces the parameters and schedules a preview run.
// It returns the new generation, or 0 when no image is loaded.
func (s *Session) SetParams(p Params) uint64 {
	return s.Update(func(cur *Params) { *cur = p })
}

// Update edits the parameters in place and schedules a preview run.
// It returns the new generation, or 0 when no image is loaded.
func (s *Session) Update(edit func(*Params)) uint64 {
	s.mu.Lock()
	edit(&s.params)
	if s.preview == nil {
		s.mu.Unlock()
		return 0
	}
	job := s.jobLocked()
	s.mu.Unlock()

	return s.sched.Submit(job)
}

// PickKeyColor samples the preview at (x, y) and makes it the key color.
// Picking also switches the chroma and despill stages on.
func (s *Session) PickKeyColor(x, y int) (KeyColor, error) {
	s.mu.Lock()
	preview := s.preview
	s.mu.Unlock()

	if preview == nil {
		return KeyColor{}, ErrNoImage
	}
	if x < 0 || y < 0 || x >= preview.width || y >= preview.height {
		return KeyColor{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}

	r, g, b, _ := preview.Pixel(x, y)
	key := NewKeyColor(r, g, b)
	s.Update(func(p *Params) {
		p.KeyColor = key
		p.ApplyChroma = true
		p.ApplyDespill = true
	})
	return key, nil
}

// Erase paints an eraser dab of diameter size centered at preview
// coordinates (x, y). The same dab, scaled to full resolution, is painted
// into the full-size mask.
func (s *Session) Erase(x, y, size float64) (uint64, error) {
	s.mu.Lock()
	if s.preview == nil {
		s.mu.Unlock()
		return 0, ErrNoImage
	}

	r := size / 2
	s.previewEraser.FillEllipse(x, y, r, r, 0)

	scaleX := float64(s.full.width) / float64(s.preview.width)
	scaleY := float64(s.full.height) / float64(s.preview.height)
	fr := r * scaleX
	s.fullEraser.FillEllipse(x*scaleX, y*scaleY, fr, fr, 0)

	job := s.jobLocked()
	s.mu.Unlock()

	return s.sched.Submit(job), nil
}

// ResetEraser clears every eraser stroke.
func (s *Session) ResetEraser() (uint64, error) {
	s.mu.Lock()
	if s.preview == nil {
		s.mu.Unlock()
		return 0, ErrNoImage
	}
	s.previewEraser.Fill(255)
	s.fullEraser.Fill(255)
	job := s.jobLocked()
	s.mu.Unlock()

	return s.sched.Submit(job), nil
}

// Eraser returns a copy of the full-size eraser mask, or nil.
func (s *Session) Eraser() *Matte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fullEraser == nil {
		return nil
	}
	return s.fullEraser.Clone()
}

// SetGarbageMatte sets or, with nil, clears the garbage matte.
func (s *Session) SetGarbageMatte(m *Matte) uint64 {
	return s.setMatte(&s.garbage, m, RoleGarbage)
}

// SetCoreMatte sets or, with nil, clears the core matte.
func (s *Session) SetCoreMatte(m *Matte) uint64 {
	return s.setMatte(&s.core, m, RoleCore)
}

// LoadGarbageMatte reads a garbage matte from an image file. On error the
// current matte is kept.
func (s *Session) LoadGarbageMatte(path string) error {
	m, err := LoadMatte(path, RoleGarbage)
	if err != nil {
		return err
	}
	s.SetGarbageMatte(m)
	return nil
}

// LoadCoreMatte reads a core matte from an image file. On error the current
// matte is kept.
func (s *Session) LoadCoreMatte(path string) error {
	m, err := LoadMatte(path, RoleCore)
	if err != nil {
		return err
	}
	s.SetCoreMatte(m)
	return nil
}

func (s *Session) setMatte(dst **Matte, m *Matte, role Role) uint64 {
	if m != nil {
		m = m.Clone()
		m.role = role
	}

	s.mu.Lock()
	*dst = m
	if s.preview == nil {
		s.mu.Unlock()
		return 0
	}
	s.refitMattesLocked()
	job := s.jobLocked()
	s.mu.Unlock()

	return s.sched.Submit(job)
}

// refitMattesLocked resamples garbage and core mattes to the working image
// and the preview. Full-size copies are kept so a crop stays aligned.
func (s *Session) refitMattesLocked() {
	if s.full == nil {
		return
	}
	if s.garbage != nil {
		s.garbage = s.garbage.Resized(s.full.width, s.full.height)
	}
	if s.core != nil {
		s.core = s.core.Resized(s.full.width, s.full.height)
	}
	s.previewMattes = Mattes{
		Garbage: fitMatte(s.garbage, s.preview.width, s.preview.height),
		Core:    fitMatte(s.core, s.preview.width, s.preview.height),
	}
}

// jobLocked snapshots the preview inputs. The eraser is cloned because
// later strokes mutate it in place.
func (s *Session) jobLocked() Job {
	m := s.previewMattes
	m.Eraser = s.previewEraser.Clone()
	return Job{
		Params:     s.params,
		Resolution: ResolutionPreview,
		Source:     s.preview,
		Mattes:     m,
	}
}

// fullJobLocked snapshots the full-resolution inputs.
func (s *Session) fullJobLocked() Job {
	return Job{
		Params:     s.params,
		Resolution: ResolutionFull,
		Source:     s.full,
		Mattes: Mattes{
			Garbage: s.garbage,
			Core:    s.core,
			Eraser:  s.fullEraser.Clone(),
		},
	}
}

// Render runs the current parameters at full resolution. It ignores preview
// generations and cannot be cancelled.
func (s *Session) Render() (*Pixmap, error) {
	s.mu.Lock()
	if s.full == nil {
		s.mu.Unlock()
		return nil, ErrNoImage
	}
	job := s.fullJobLocked()
	s.mu.Unlock()

	return s.pipeline.RunJob(job, nil)
}

// Save renders at full resolution and writes the result to path as PNG.
// A failed save leaves neither a partial file nor a modified working image.
func (s *Session) Save(path string) error {
	start := time.Now()
	out, err := s.Render()
	if err != nil {
		return fmt.Errorf("matte: save: %w", err)
	}
	if err := out.SavePNG(path); err != nil {
		return fmt.Errorf("matte: save: %w", err)
	}
	Logger().Info("matte: saved", "path", path,
		"width", out.width, "height", out.height, "elapsed", time.Since(start))
	return nil
}

// AutoCrop renders at full resolution, then crops the working image and
// the full-size masks to the bounding box of the pixels that kept some
// alpha. The preview and preview mask are rebuilt from the cropped image.
func (s *Session) AutoCrop() (image.Rectangle, error) {
	s.mu.Lock()
	src := s.full
	s.mu.Unlock()

	out, err := s.Render()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("matte: crop: %w", err)
	}
	bbox := out.AlphaBounds()
	s.pipeline.Recycle(out)
	if bbox.Empty() {
		return image.Rectangle{}, ErrFullyTransparent
	}

	s.mu.Lock()
	if s.full != src {
		s.mu.Unlock()
		return image.Rectangle{}, errors.New("matte: crop: image replaced during render")
	}
	s.full = s.full.Crop(bbox)
	s.fullEraser = s.fullEraser.Crop(bbox)
	if s.garbage != nil {
		s.garbage = s.garbage.Crop(bbox)
	}
	if s.core != nil {
		s.core = s.core.Crop(bbox)
	}
	s.preview = s.full.Thumbnail(s.opts.previewWidth, s.opts.previewHeight)
	s.previewEraser = s.fullEraser.Resized(s.preview.width, s.preview.height)
	if s.previewEraser == s.fullEraser {
		s.previewEraser = s.fullEraser.Clone()
	}
	s.refitMattesLocked()
	job := s.jobLocked()
	s.mu.Unlock()

	s.sched.Submit(job)
	Logger().Info("matte: cropped", "bounds", bbox.String())
	return bbox, nil
}

// Display returns the last committed preview and its generation.
func (s *Session) Display() (*Pixmap, uint64) {
	return s.sched.Display()
}

// Compose renders the last committed preview over the view's backdrop.
// It returns nil before the first commit.
func (s *Session) Compose(view View) *Pixmap {
	out, _ := s.sched.Display()
	if out == nil {
		return nil
	}
	return Compose(out, view)
}

// Compose renders px over the view's backdrop as an opaque pixmap.
func Compose(px *Pixmap, view View) *Pixmap {
	return fromNRGBA(intImage.Compose(px.ToImage(), view.backdrop(), intImage.CheckerTileSize))
}

// Wait blocks until no preview run is pending or running.
func (s *Session) Wait(ctx context.Context) error {
	return s.sched.Wait(ctx)
}

// Scheduler returns the session's preview scheduler.
func (s *Session) Scheduler() *Scheduler {
	return s.sched
}
