// Package particle implements the ambient backdrop animations: a fixed-size
// field of particles advanced one frame at a time by a Controller that draws
// onto an abstract Surface.
package particle

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Particle is one animated element. It has no identity beyond its index in
// the Field that owns it.
type Particle struct {
	X, Y    float64 // surface pixels
	VX, VY  float64 // displacement per frame
	Size    float64 // radius, or glyph size for text variants
	Opacity float64 // [0,1]
	Color   colorful.Color
	Glyph   rune // zero for shape variants
}

func (p Particle) finite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.VX, p.VY, p.Opacity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// outside reports whether p lies beyond the w×h rectangle grown by mx
// horizontally and my vertically.
func outside(p *Particle, w, h, mx, my float64) bool {
	return p.X < -mx || p.X > w+mx || p.Y < -my || p.Y > h+my
}
