package particle

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Logger is the logging interface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Option configures a Controller.
type Option func(*Controller)

// WithSeed seeds the particle factory so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller owns one mounted backdrop: its surface, field and pending frame.
// It is either running or stopped; Stop followed by Start remounts from a
// fresh field.
type Controller struct {
	variant  Variant
	surface  Surface
	viewport Viewport
	sched    Scheduler
	logger   Logger
	rng      *rand.Rand

	mu           sync.Mutex
	field        *Field
	running      bool
	gen          uint64
	w, h         int
	frames       uint64
	cancelFrame  func()
	removeResize func()
}

// NewController returns a stopped controller. A nil surface, viewport or
// scheduler makes Start a no-op.
func NewController(v Variant, s Surface, vp Viewport, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		variant:  v,
		surface:  s,
		viewport: vp,
		sched:    sched,
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	c.field = NewField(v.Behavior, c.rng)
	return c
}

// Start sizes the surface from the viewport, populates the field, subscribes
// to resizes and schedules the first frame. Starting a running controller
// does nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	if c.surface == nil || c.viewport == nil || c.sched == nil || c.variant.Behavior == nil {
		c.logger.Debug("backdrop disabled, no drawing surface", "variant", c.variant.Name)
		return
	}

	c.resizeLocked(c.viewport.Size())
	c.removeResize = c.viewport.OnResize(c.handleResize)
	c.running = true
	c.gen++
	c.requestFrameLocked()
	c.logger.Debug("backdrop started", "variant", c.variant.Name, "width", c.w, "height", c.h, "particles", c.field.Len())
}

// Stop cancels the pending frame and removes the resize listener. It is safe
// to call at any time, any number of times.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
	if c.removeResize != nil {
		c.removeResize()
		c.removeResize = nil
	}
	c.logger.Debug("backdrop stopped", "variant", c.variant.Name, "frames", c.frames)
}

// Running reports whether frames are being scheduled.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Frames returns the number of frames rendered since construction.
func (c *Controller) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Size returns the current surface dimensions.
func (c *Controller) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// Particles returns a copy of the field.
func (c *Controller) Particles() []Particle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.field.Particles()
}

func (c *Controller) handleResize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.resizeLocked(w, h)
}

// resizeLocked resets the surface and the field. Existing particles are
// discarded, not remapped.
func (c *Controller) resizeLocked(w, h int) {
	c.w, c.h = max(w, 0), max(h, 0)
	c.surface.Resize(c.w, c.h)
	c.field.Initialize(c.w, c.h)
}

// requestFrameLocked schedules a frame bound to the current run. A callback
// from an earlier run may already have left the scheduler's queue when Stop
// cancels it, so each callback checks its generation before drawing.
func (c *Controller) requestFrameLocked() {
	gen := c.gen
	c.cancelFrame = c.sched.RequestFrame(func() { c.frame(gen) })
}

func (c *Controller) frame(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || gen != c.gen {
		return
	}
	c.renderLocked()
	c.frames++
	c.requestFrameLocked()
}

func (c *Controller) renderLocked() {
	s := c.surface
	s.FillRect(0, 0, float64(c.w), float64(c.h), c.variant.Background, c.variant.TrailAlpha)

	for i := 0; i < c.field.Len(); i++ {
		c.field.step(i)
		c.field.draw(s, i)
	}

	s.SetGlow(colorful.Color{}, 0)
	if p, ok := s.(Presenter); ok {
		p.Present()
	}
}
