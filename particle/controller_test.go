package particle

import (
	"context"
	"testing"
	"time"
)

func newTestController(t *testing.T, name string, w, h int) (*Controller, *Recorder, *ManualScheduler, *Window) {
	t.Helper()
	v, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	rec := &Recorder{}
	sched := &ManualScheduler{}
	win := NewWindow(w, h)
	return NewController(v, rec, win, sched, WithSeed(42)), rec, sched, win
}

func TestStartPopulatesField(t *testing.T) {
	c, rec, sched, _ := newTestController(t, "blood", 800, 600)
	c.Start()

	if !c.Running() {
		t.Fatal("controller not running after Start")
	}
	if n := len(c.Particles()); n != 32 {
		t.Errorf("particles = %d, want 32", n)
	}
	if rec.Count("resize") != 1 {
		t.Errorf("resize ops = %d, want 1", rec.Count("resize"))
	}
	if sched.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", sched.Pending())
	}
}

func TestFrameDrawOrder(t *testing.T) {
	c, rec, sched, _ := newTestController(t, "blood", 800, 600)
	c.Start()
	rec.Reset()
	sched.Step()

	if len(rec.Ops) == 0 {
		t.Fatal("frame drew nothing")
	}
	first := rec.Ops[0]
	if first.Kind != "rect" || first.W != 800 || first.H != 600 || first.Alpha != 0.05 {
		t.Errorf("first op = %+v, want full-surface trail rect at 0.05", first)
	}
	if first.GlowOn {
		t.Error("trail rect drawn with glow on")
	}
	if got := rec.Count("circle"); got != 32 {
		t.Errorf("circles = %d, want 32", got)
	}
	last := rec.Ops[len(rec.Ops)-1]
	if last.Kind != "glow" || last.R != 0 {
		t.Errorf("last op = %+v, want glow reset", last)
	}
	if rec.Presents != 1 {
		t.Errorf("presents = %d, want 1", rec.Presents)
	}
	if c.Frames() != 1 {
		t.Errorf("frames = %d, want 1", c.Frames())
	}
}

func TestGlowDoesNotLeakIntoNextFrame(t *testing.T) {
	c, rec, sched, _ := newTestController(t, "haze", 800, 600)
	c.Start()
	sched.StepN(5)

	for _, op := range rec.Ops {
		if op.Kind == "rect" && op.GlowOn {
			t.Fatal("background fade painted with glow enabled")
		}
	}
}

func TestStopHaltsDrawingAndScheduling(t *testing.T) {
	c, rec, sched, win := newTestController(t, "ember", 800, 600)
	c.Start()
	sched.StepN(3)

	c.Stop()
	ops, requests := len(rec.Ops), sched.Requests()
	for i := 0; i < 10; i++ {
		sched.Step()
	}

	if len(rec.Ops) != ops {
		t.Errorf("draw ops grew from %d to %d after Stop", ops, len(rec.Ops))
	}
	if sched.Requests() != requests {
		t.Errorf("frame requests grew from %d to %d after Stop", requests, sched.Requests())
	}
	if sched.Pending() != 0 {
		t.Errorf("pending = %d after Stop, want 0", sched.Pending())
	}
	if win.Listeners() != 0 {
		t.Errorf("resize listeners = %d after Stop, want 0", win.Listeners())
	}
	if c.Frames() != 3 {
		t.Errorf("frames = %d, want 3", c.Frames())
	}
}

// leakyScheduler ignores cancellation so a stale callback still fires.
type leakyScheduler struct {
	fns []func()
}

func (s *leakyScheduler) RequestFrame(fn func()) func() {
	s.fns = append(s.fns, fn)
	return func() {}
}

func TestStaleFrameAfterStopIsInert(t *testing.T) {
	v, _ := Lookup("blood")
	rec := &Recorder{}
	sched := &leakyScheduler{}
	c := NewController(v, rec, NewWindow(800, 600), sched, WithSeed(1))
	c.Start()
	c.Stop()

	ops := len(rec.Ops)
	for _, fn := range sched.fns {
		fn()
	}
	if len(rec.Ops) != ops {
		t.Errorf("stale frame drew %d ops", len(rec.Ops)-ops)
	}
	if len(sched.fns) != 1 {
		t.Errorf("stale frame rescheduled: %d requests", len(sched.fns))
	}
}

func TestRestartMidBatchKeepsOneFrameChain(t *testing.T) {
	c, rec, sched, _ := newTestController(t, "blood", 800, 600)
	// Runs ahead of the first frame in the same batch, after the scheduler
	// has already taken that frame off its queue.
	sched.RequestFrame(func() {
		c.Stop()
		c.Start()
	})
	c.Start()

	sched.Step()
	if c.Frames() != 0 {
		t.Errorf("frames after restart batch = %d, want 0", c.Frames())
	}
	if n := sched.Pending(); n != 1 {
		t.Fatalf("pending after restart batch = %d, want 1", n)
	}

	rec.Reset()
	sched.Step()
	if got := rec.Count("rect"); got != 1 {
		t.Errorf("trail rects in next frame = %d, want 1", got)
	}
	if rec.Presents != 1 {
		t.Errorf("presents = %d, want 1", rec.Presents)
	}

	c.Stop()
	if n := sched.Pending(); n != 0 {
		t.Errorf("pending after Stop = %d, want 0", n)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c, _, _, _ := newTestController(t, "blood", 800, 600)
	c.Stop()
	c.Start()
	c.Stop()
	c.Stop()
	if c.Running() {
		t.Error("controller running after Stop")
	}
}

func TestResizeResetsField(t *testing.T) {
	c, rec, sched, win := newTestController(t, "blood", 800, 600)
	c.Start()
	sched.StepN(2)

	win.Resize(1920, 1080)
	if n := len(c.Particles()); n != 138 {
		t.Errorf("particles after resize = %d, want 138", n)
	}
	if w, h := c.Size(); w != 1920 || h != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", w, h)
	}
	if rec.Count("resize") != 2 {
		t.Errorf("resize ops = %d, want 2", rec.Count("resize"))
	}

	win.Resize(100, 100)
	if n := len(c.Particles()); n != 0 {
		t.Errorf("particles after shrink = %d, want 0", n)
	}

	// Frames keep running on an empty field.
	rec.Reset()
	sched.Step()
	if rec.Count("rect") != 1 || rec.Count("circle") != 0 {
		t.Errorf("empty frame ops = %+v", rec.Ops)
	}
}

func TestResizeAfterStopIgnored(t *testing.T) {
	c, rec, _, win := newTestController(t, "blood", 800, 600)
	c.Start()
	c.Stop()
	win.Resize(1920, 1080)
	if rec.Count("resize") != 1 {
		t.Errorf("resize ops = %d, want 1", rec.Count("resize"))
	}
}

func TestRestartBuildsFreshField(t *testing.T) {
	c, _, sched, win := newTestController(t, "blood", 800, 600)
	c.Start()
	sched.StepN(2)
	c.Stop()

	win.Resize(1600, 900)
	c.Start()
	if n := len(c.Particles()); n != 96 {
		t.Errorf("particles after restart = %d, want 96", n)
	}
	if win.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", win.Listeners())
	}
}

func TestMissingSurfaceIsSilentNoop(t *testing.T) {
	v, _ := Lookup("blood")
	sched := &ManualScheduler{}
	win := NewWindow(800, 600)
	c := NewController(v, nil, win, sched)
	c.Start()

	if c.Running() {
		t.Error("controller running without a surface")
	}
	if sched.Requests() != 0 || win.Listeners() != 0 {
		t.Error("controller scheduled work without a surface")
	}
	c.Stop()
}

func TestSeedIsReproducible(t *testing.T) {
	a, _, sa, _ := newTestController(t, "ember", 800, 600)
	b, _, sb, _ := newTestController(t, "ember", 800, 600)
	a.Start()
	b.Start()
	sa.StepN(50)
	sb.StepN(50)

	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestStreamDrawsGlyphs(t *testing.T) {
	c, rec, sched, _ := newTestController(t, "stream", 140, 600)
	c.Start()
	rec.Reset()
	sched.Step()

	if got := rec.Count("glyph"); got != 10 {
		t.Errorf("glyphs = %d, want 10", got)
	}
	for _, op := range rec.Ops {
		if op.Kind == "glyph" && !containsRune("0123456789.%", op.Glyph) {
			t.Errorf("unexpected glyph %q", op.Glyph)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestFrameLoopDrivesController(t *testing.T) {
	v, _ := Lookup("blood")
	rec := &Recorder{}
	loop := NewFrameLoop(time.Millisecond)
	win := NewWindow(800, 600)
	c := NewController(v, rec, win, loop, WithSeed(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	loop.Post(c.Start)
	deadline := time.Now().Add(4 * time.Second)
	for c.Frames() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Frames() < 3 {
		t.Fatalf("frames = %d after waiting, want >= 3", c.Frames())
	}

	stopped := make(chan struct{})
	loop.Post(func() {
		c.Stop()
		close(stopped)
	})
	<-stopped
	frames := c.Frames()
	time.Sleep(20 * time.Millisecond)
	if c.Frames() != frames {
		t.Errorf("frames advanced after Stop: %d -> %d", frames, c.Frames())
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
