package matte

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	s := NewSession(opts...)
	t.Cleanup(s.Close)
	return s
}

// greenWithBlock returns a green-screen pixmap with an opaque white block
// covering rect.
func greenWithBlock(w, h int, rect image.Rectangle) *Pixmap {
	px := solidPixmap(w, h, 0, 255, 0, 255)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			px.SetPixel(x, y, 255, 255, 255, 255)
		}
	}
	return px
}

// =============================================================================
// Image Tests
// =============================================================================

func TestSession_NoImage(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Erase(1, 1, 10); !errors.Is(err, ErrNoImage) {
		t.Errorf("Erase = %v, want ErrNoImage", err)
	}
	if _, err := s.ResetEraser(); !errors.Is(err, ErrNoImage) {
		t.Errorf("ResetEraser = %v, want ErrNoImage", err)
	}
	if _, err := s.PickKeyColor(0, 0); !errors.Is(err, ErrNoImage) {
		t.Errorf("PickKeyColor = %v, want ErrNoImage", err)
	}
	if _, err := s.Render(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Render = %v, want ErrNoImage", err)
	}
	if err := s.Save(filepath.Join(t.TempDir(), "out.png")); !errors.Is(err, ErrNoImage) {
		t.Errorf("Save = %v, want ErrNoImage", err)
	}
	if gen := s.Update(func(p *Params) { p.Lower = 1 }); gen != 0 {
		t.Errorf("Update generation = %d, want 0 without an image", gen)
	}
	if s.Params().Lower != 1 {
		t.Error("Update did not record the edit")
	}
	if s.Compose(ViewChecker) != nil {
		t.Error("Compose before any commit should be nil")
	}
	if s.Eraser() != nil {
		t.Error("Eraser without an image should be nil")
	}
}

func TestSession_SetImagePreview(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 800, 400, 400, 200},
		{"portrait", 300, 600, 200, 400},
		{"small", 120, 80, 120, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			gen, err := s.SetImage(solidPixmap(tt.w, tt.h, 0, 255, 0, 255))
			if err != nil {
				t.Fatal(err)
			}
			if gen == 0 {
				t.Error("SetImage should schedule a preview run")
			}
			p := s.Preview()
			if p.Width() != tt.wantW || p.Height() != tt.wantH {
				t.Errorf("preview = %dx%d, want %dx%d", p.Width(), p.Height(), tt.wantW, tt.wantH)
			}
			e := s.Eraser()
			if e.Width() != tt.w || e.Height() != tt.h || e.At(0, 0) != 255 {
				t.Errorf("eraser = %dx%d, want fresh %dx%d", e.Width(), e.Height(), tt.w, tt.h)
			}
		})
	}
}

func TestSession_SetImageEmpty(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(NewPixmap(0, 0)); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("SetImage(empty) = %v, want ErrEmptyImage", err)
	}
	if s.Image() != nil {
		t.Error("failed SetImage replaced the image")
	}
}

func TestSession_LoadErrorKeepsState(t *testing.T) {
	s := newTestSession(t)
	px := solidPixmap(10, 10, 1, 2, 3, 255)
	if _, err := s.SetImage(px); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(bad); err == nil {
		t.Fatal("Load of garbage data should fail")
	}
	if err := s.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("Load of a missing file should fail")
	}
	if s.Image() != px {
		t.Error("failed Load replaced the working image")
	}
}

func TestSession_LoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	if err := solidPixmap(6, 4, 10, 20, 30, 255).SavePNG(path); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t)
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	if r, g, b, a := s.Image().Pixel(5, 3); r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("loaded pixel = (%d,%d,%d,%d), want (10,20,30,255)", r, g, b, a)
	}
}

// =============================================================================
// Edit Tests
// =============================================================================

func TestSession_PickKeyColor(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(solidPixmap(20, 20, 10, 200, 30, 255)); err != nil {
		t.Fatal(err)
	}
	s.Update(func(p *Params) {
		p.ApplyChroma = false
		p.ApplyDespill = false
	})

	key, err := s.PickKeyColor(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := key.RGB(); r != 10 || g != 200 || b != 30 {
		t.Errorf("key = (%d,%d,%d), want (10,200,30)", r, g, b)
	}
	p := s.Params()
	if !p.ApplyChroma || !p.ApplyDespill {
		t.Errorf("ApplyChroma=%v ApplyDespill=%v, want both on", p.ApplyChroma, p.ApplyDespill)
	}
	if !p.KeyColor.Equal(key) {
		t.Error("params key color not updated")
	}

	if _, err := s.PickKeyColor(20, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("PickKeyColor outside = %v, want ErrOutOfBounds", err)
	}
}

func TestSession_EraseScalesToFull(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(solidPixmap(800, 400, 0, 255, 0, 255)); err != nil {
		t.Fatal(err)
	}

	// Preview is 400x200, so the full mask is scaled by 2.
	if _, err := s.Erase(100, 100, 20); err != nil {
		t.Fatal(err)
	}
	e := s.Eraser()
	tests := []struct {
		x, y int
		want uint8
	}{
		{200, 200, 0},
		{180, 200, 0},
		{220, 200, 0},
		{221, 200, 255},
		{200, 179, 255},
		{0, 0, 255},
	}
	for _, tt := range tests {
		if got := e.At(tt.x, tt.y); got != tt.want {
			t.Errorf("eraser(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}

	if _, err := s.ResetEraser(); err != nil {
		t.Fatal(err)
	}
	if got := s.Eraser().At(200, 200); got != 255 {
		t.Errorf("after reset eraser = %d, want 255", got)
	}
}

func TestSession_EraserIsACopy(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(solidPixmap(4, 4, 0, 0, 0, 255)); err != nil {
		t.Fatal(err)
	}
	s.Eraser().Fill(0)
	if got := s.Eraser().At(1, 1); got != 255 {
		t.Errorf("session eraser = %d, want untouched 255", got)
	}
}

// =============================================================================
// Preview Tests
// =============================================================================

func TestSession_CommitsLatestPreview(t *testing.T) {
	var mu sync.Mutex
	var gens []uint64
	s := newTestSession(t, WithPreviewSize(40, 40), WithCommit(func(gen uint64, _ *Pixmap) {
		mu.Lock()
		gens = append(gens, gen)
		mu.Unlock()
	}))

	if _, err := s.SetImage(greenWithBlock(20, 20, image.Rect(5, 5, 15, 15))); err != nil {
		t.Fatal(err)
	}
	last := s.Update(func(p *Params) { p.Upper = 30 })
	waitIdle(t, s.Scheduler())

	out, gen := s.Display()
	if gen != last {
		t.Errorf("display generation = %d, want %d", gen, last)
	}
	if _, _, _, a := out.Pixel(0, 0); a != 0 {
		t.Errorf("green alpha = %d, want 0", a)
	}
	if _, _, _, a := out.Pixel(10, 10); a != 255 {
		t.Errorf("white alpha = %d, want 255", a)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(gens) == 0 || gens[len(gens)-1] != last {
		t.Errorf("commits = %v, want last %d", gens, last)
	}
}

func TestSession_Compose(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(greenWithBlock(20, 20, image.Rect(5, 5, 15, 15))); err != nil {
		t.Fatal(err)
	}
	waitIdle(t, s.Scheduler())

	tests := []struct {
		view View
		want uint8
	}{
		{ViewBlack, 0},
		{ViewWhite, 255},
		{ViewAlpha, 0},
		{ViewChecker, 153},
	}
	for _, tt := range tests {
		out := s.Compose(tt.view)
		r, g, b, a := out.Pixel(0, 0)
		if r != tt.want || g != tt.want || b != tt.want || a != 255 {
			t.Errorf("%s corner = (%d,%d,%d,%d), want gray %d", tt.view, r, g, b, a, tt.want)
		}
	}
	if r, _, _, _ := s.Compose(ViewAlpha).Pixel(10, 10); r != 255 {
		t.Errorf("alpha view foreground = %d, want 255", r)
	}
}

// =============================================================================
// Matte Tests
// =============================================================================

func TestSession_GarbageAndCoreMattes(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(greenWithBlock(8, 8, image.Rect(0, 0, 4, 8))); err != nil {
		t.Fatal(err)
	}

	// Full garbage removes the white half; full core restores the green
	// half.
	s.SetGarbageMatte(NewMatte(8, 8, RoleGarbage, 255))
	out, err := s.Render()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := out.Pixel(1, 1); a != 0 {
		t.Errorf("garbage-covered alpha = %d, want 0", a)
	}

	s.SetGarbageMatte(nil)
	s.SetCoreMatte(NewMatte(8, 8, RoleCore, 255))
	out, err = s.Render()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := out.Pixel(6, 6); a != 255 {
		t.Errorf("core-covered green alpha = %d, want 255", a)
	}
}

func TestSession_LoadMatteError(t *testing.T) {
	s := newTestSession(t)
	if err := s.LoadGarbageMatte(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadGarbageMatte of a missing file should fail")
	}
	if err := s.LoadCoreMatte(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadCoreMatte of a missing file should fail")
	}
}

// =============================================================================
// Save and Crop Tests
// =============================================================================

func TestSession_Save(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(greenWithBlock(16, 8, image.Rect(4, 2, 8, 6))); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width() != 16 || got.Height() != 8 {
		t.Errorf("saved size = %dx%d, want full resolution 16x8", got.Width(), got.Height())
	}
	if _, _, _, a := got.Pixel(0, 0); a != 0 {
		t.Errorf("saved green alpha = %d, want 0", a)
	}
	if _, _, _, a := got.Pixel(5, 3); a != 255 {
		t.Errorf("saved white alpha = %d, want 255", a)
	}
}

func TestSession_SaveIgnoresPreviewEdits(t *testing.T) {
	s := newTestSession(t, WithPipelineOptions(WithBandHeight(1)))

	src := NewPixmap(1000, 800)
	for y := range 800 {
		for x := range 1000 {
			if (x/50+y/50)%2 == 0 {
				src.SetPixel(x, y, 0, 255, 0, 255)
			} else {
				src.SetPixel(x, y, uint8(x), uint8(y), 200, 255)
			}
		}
	}
	if _, err := s.SetImage(src); err != nil {
		t.Fatal(err)
	}

	want, err := newTestPipeline(t).Run(src, DefaultParams(), Mattes{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Keep submitting preview edits that leave the parameters unchanged
	// while the full-resolution save runs.
	stop := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; ; i++ {
			s.Update(func(*Params) {})
			if i == 0 {
				close(started)
			}
			select {
			case <-stop:
				return
			default:
			}
		}
	}()
	<-started

	before := s.Scheduler().Generation()
	path := filepath.Join(t.TempDir(), "out.png")
	saveErr := s.Save(path)
	after := s.Scheduler().Generation()
	close(stop)
	<-done

	if saveErr != nil {
		t.Fatalf("Save: %v", saveErr)
	}
	if after <= before {
		t.Errorf("generation did not move during save (%d -> %d)", before, after)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width() != 1000 || got.Height() != 800 {
		t.Fatalf("saved size = %dx%d, want 1000x800", got.Width(), got.Height())
	}
	if !bytes.Equal(got.Data(), want.Data()) {
		t.Error("saved pixels differ from an uncontended full render")
	}
}

func TestSession_SaveFailureLeavesNoFile(t *testing.T) {
	s := newTestSession(t)
	src := NewPixmap(4, 4)
	for i := range src.Data() {
		src.Data()[i] = uint8(i * 7)
	}
	if _, err := s.SetImage(src); err != nil {
		t.Fatal(err)
	}
	before := bytes.Clone(s.Image().Data())

	path := filepath.Join(t.TempDir(), "missing-dir", "out.png")
	if err := s.Save(path); err == nil {
		t.Fatal("Save into a missing directory should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Stat after failed save = %v, want not exist", err)
	}
	if !bytes.Equal(s.Image().Data(), before) {
		t.Error("failed save modified the working image")
	}
}

func TestSession_AutoCrop(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.SetImage(greenWithBlock(40, 20, image.Rect(10, 5, 20, 10))); err != nil {
		t.Fatal(err)
	}

	bbox, err := s.AutoCrop()
	if err != nil {
		t.Fatal(err)
	}
	if want := image.Rect(10, 5, 20, 10); bbox != want {
		t.Errorf("bbox = %v, want %v", bbox, want)
	}
	if img := s.Image(); img.Width() != 10 || img.Height() != 5 {
		t.Errorf("image = %dx%d, want 10x5", img.Width(), img.Height())
	}
	if e := s.Eraser(); e.Width() != 10 || e.Height() != 5 {
		t.Errorf("eraser = %dx%d, want 10x5", e.Width(), e.Height())
	}
	if p := s.Preview(); p.Width() != 10 || p.Height() != 5 {
		t.Errorf("preview = %dx%d, want 10x5", p.Width(), p.Height())
	}
}

func TestSession_AutoCropFullyTransparent(t *testing.T) {
	s := newTestSession(t)
	px := solidPixmap(8, 8, 0, 255, 0, 255)
	if _, err := s.SetImage(px); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AutoCrop(); !errors.Is(err, ErrFullyTransparent) {
		t.Errorf("AutoCrop = %v, want ErrFullyTransparent", err)
	}
	if s.Image() != px {
		t.Error("failed AutoCrop replaced the image")
	}
}
