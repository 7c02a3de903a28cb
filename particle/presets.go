package particle

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette
var (
	nearBlack   = mustHex("#0a0a0a")
	redPrimary  = mustHex("#dc2626")
	crimson     = mustHex("#991b1b")
	bloodCore   = colorful.Color{R: 96.0 / 255, G: 5.0 / 255, B: 5.0 / 255}
	emberGlow   = mustHex("#600505")
	textPrimary = mustHex("#e4e4e7")
	textSecond  = mustHex("#a1a1aa")
	textThird   = mustHex("#71717a")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// drift spawns particles just outside the left or right edge and lets them
// drift inward while fading.
type drift struct {
	density int
	margin  float64
	fade    float64
	blur    float64
	core    colorful.Color
	glow    colorful.Color
}

func (b drift) Count(w, h int) int { return AreaCount(w, h, b.density) }

func (b drift) Spawn(r *rand.Rand, _ int, w, h float64) Particle {
	x, dir := -b.margin, 1.0
	if r.Float64() >= 0.5 {
		x, dir = w+b.margin, -1.0
	}
	return Particle{
		X:       x,
		Y:       r.Float64() * h,
		Size:    r.Float64()*3 + 1,
		VX:      (r.Float64()*0.5 + 0.2) * dir,
		VY:      (r.Float64() - 0.5) * 0.2,
		Opacity: r.Float64()*0.5 + 0.3,
		Color:   b.core,
	}
}

func (b drift) Advance(p *Particle) {
	p.X += p.VX
	p.Y += p.VY
	p.Opacity -= b.fade
}

func (b drift) Expired(_ *rand.Rand, p *Particle, w, h float64) bool {
	return p.Opacity <= 0 || outside(p, w, h, b.margin, b.margin)
}

func (b drift) Draw(s Surface, _ *rand.Rand, p *Particle) {
	s.SetGlow(b.glow, b.blur)
	s.FillCircle(p.X, p.Y, p.Size, p.Color, p.Opacity)
}

// rising spawns particles below the bottom edge and floats them upward.
type rising struct {
	density int
	depth   float64 // spawn band below the bottom edge
	margin  float64
	fade    float64
	blur    float64
	fill    colorful.Color
	glow    colorful.Color
}

func (b rising) Count(w, h int) int { return AreaCount(w, h, b.density) }

func (b rising) Spawn(r *rand.Rand, _ int, w, h float64) Particle {
	return Particle{
		X:       r.Float64() * w,
		Y:       h + r.Float64()*b.depth,
		Size:    r.Float64()*2.5 + 1,
		VY:      -(r.Float64()*1.5 + 0.5),
		VX:      (r.Float64() - 0.5) * 1.0,
		Opacity: 1,
		Color:   b.fill,
	}
}

func (b rising) Advance(p *Particle) {
	p.X += p.VX
	p.Y += p.VY
	p.Opacity -= b.fade
}

func (b rising) Expired(_ *rand.Rand, p *Particle, w, h float64) bool {
	if p.Opacity <= 0 {
		return true
	}
	return p.Y < -b.margin || p.Y > h+b.depth+b.margin || p.X < -b.margin || p.X > w+b.margin
}

func (b rising) Draw(s Surface, _ *rand.Rand, p *Particle) {
	s.SetGlow(b.glow, b.blur)
	s.FillCircle(p.X, p.Y, p.Size, p.Color, p.Opacity)
}

// haze drifts large, barely visible blobs whose glow carries the effect.
// Opacity stays constant; particles only expire by leaving the surface by
// more than their own size.
type haze struct {
	density int
	alpha   float64
	blur    float64
	fill    colorful.Color
	glow    colorful.Color
}

func (b haze) Count(w, h int) int { return AreaCount(w, h, b.density) }

func (b haze) Spawn(r *rand.Rand, _ int, w, h float64) Particle {
	return Particle{
		X:       r.Float64() * w,
		Y:       r.Float64() * h,
		Size:    r.Float64()*80 + 30,
		VY:      (r.Float64() - 0.5) * 0.1,
		VX:      (r.Float64() - 0.5) * 0.1,
		Opacity: b.alpha,
		Color:   b.fill,
	}
}

func (b haze) Advance(p *Particle) {
	p.X += p.VX
	p.Y += p.VY
}

func (b haze) Expired(_ *rand.Rand, p *Particle, w, h float64) bool {
	return outside(p, w, h, p.Size, p.Size)
}

func (b haze) Draw(s Surface, _ *rand.Rand, p *Particle) {
	s.SetGlow(b.glow, b.blur)
	s.FillCircle(p.X, p.Y, p.Size, p.Color, p.Opacity)
}

// stream is the glyph rain: one particle per column falling a row per frame,
// glyph and color resampled on every draw.
type stream struct {
	fontSize float64
	chars    []rune
	colors   []colorful.Color
	restart  float64 // per-frame chance a column past the bottom restarts
	margin   float64 // rows past the bottom after which a column always restarts
}

func (b stream) Count(w, _ int) int {
	if w <= 0 {
		return 0
	}
	return int(float64(w) / b.fontSize)
}

func (b stream) Spawn(r *rand.Rand, slot int, _, _ float64) Particle {
	return Particle{
		X:       float64(slot) * b.fontSize,
		Y:       b.fontSize,
		VY:      b.fontSize,
		Size:    b.fontSize,
		Opacity: 1,
		Color:   b.colors[r.IntN(len(b.colors))],
		Glyph:   b.chars[r.IntN(len(b.chars))],
	}
}

func (b stream) Advance(p *Particle) {
	p.Y += p.VY
}

func (b stream) Expired(r *rand.Rand, p *Particle, _, h float64) bool {
	if p.Y > h+b.margin*b.fontSize {
		return true
	}
	return p.Y > h && r.Float64() > 1-b.restart
}

func (b stream) Draw(s Surface, r *rand.Rand, p *Particle) {
	p.Color = b.colors[r.IntN(len(b.colors))]
	p.Glyph = b.chars[r.IntN(len(b.chars))]
	s.FillGlyph(p.X, p.Y, p.Glyph, p.Size, p.Color, p.Opacity)
}
