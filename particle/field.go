package particle

import "math/rand/v2"

// Behavior defines how one variant sizes, spawns, moves, expires and draws
// its particles. Implementations are stateless; all state lives in the Field.
type Behavior interface {
	// Count returns the field size for a w×h viewport.
	Count(w, h int) int
	// Spawn returns a fresh particle for the given slot.
	Spawn(r *rand.Rand, slot int, w, h float64) Particle
	// Advance moves p by one frame.
	Advance(p *Particle)
	// Expired reports whether p must be replaced.
	Expired(r *rand.Rand, p *Particle, w, h float64) bool
	// Draw paints p onto s.
	Draw(s Surface, r *rand.Rand, p *Particle)
}

// AreaCount returns floor(w*h/density), or zero for an empty viewport.
func AreaCount(w, h, density int) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	return int(int64(w) * int64(h) / int64(density))
}

// Field is a fixed-length ordered sequence of particles. Its length only
// changes on Initialize.
type Field struct {
	behavior  Behavior
	rng       *rand.Rand
	w, h      float64
	particles []Particle
}

// NewField returns an empty field for b drawing randomness from rng.
func NewField(b Behavior, rng *rand.Rand) *Field {
	return &Field{behavior: b, rng: rng}
}

// Initialize discards the current particles and repopulates the field for a
// w×h viewport. Negative dimensions are treated as zero.
func (f *Field) Initialize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	f.w, f.h = float64(w), float64(h)

	n := f.behavior.Count(w, h)
	f.particles = f.particles[:0]
	if cap(f.particles) < n {
		f.particles = make([]Particle, 0, n)
	}
	for i := 0; i < n; i++ {
		f.particles = append(f.particles, f.behavior.Spawn(f.rng, i, f.w, f.h))
	}
}

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.particles) }

// At returns a copy of the particle at index i.
func (f *Field) At(i int) Particle { return f.particles[i] }

// Particles returns a copy of the current particles.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// step advances particle i by one frame and replaces it in place when it
// expires. It reports whether the particle was recycled.
func (f *Field) step(i int) bool {
	p := &f.particles[i]
	f.behavior.Advance(p)
	if !p.finite() || f.behavior.Expired(f.rng, p, f.w, f.h) {
		*p = f.behavior.Spawn(f.rng, i, f.w, f.h)
		return true
	}
	return false
}

func (f *Field) draw(s Surface, i int) {
	f.behavior.Draw(s, f.rng, &f.particles[i])
}
