package particle

import "github.com/lucasb-eyer/go-colorful"

// Surface is a 2D raster drawing target sized in device pixels.
//
// Resize sets the pixel dimensions and clears the surface. Glow set with
// SetGlow applies to every shape drawn until it is changed; a blur of zero
// disables it.
type Surface interface {
	Resize(w, h int)
	FillRect(x, y, w, h float64, c colorful.Color, alpha float64)
	FillCircle(x, y, r float64, c colorful.Color, alpha float64)
	FillGlyph(x, y float64, g rune, size float64, c colorful.Color, alpha float64)
	SetGlow(c colorful.Color, blur float64)
}

// Presenter is implemented by surfaces that buffer a frame and need an
// explicit flush once it is complete.
type Presenter interface {
	Present()
}

// Op is a single recorded draw call.
type Op struct {
	Kind   string // "resize", "rect", "circle", "glyph", "glow"
	X, Y   float64
	W, H   float64 // rect size, or resize dimensions
	R      float64 // circle radius, glyph size, glow blur
	Glyph  rune
	Color  colorful.Color
	Alpha  float64
	GlowOn bool // glow active when the shape was drawn
}

// Recorder is a Surface that keeps every draw call in memory.
type Recorder struct {
	Ops      []Op
	Presents int

	blur float64
}

func (r *Recorder) Resize(w, h int) {
	r.Ops = append(r.Ops, Op{Kind: "resize", W: float64(w), H: float64(h)})
}

func (r *Recorder) FillRect(x, y, w, h float64, c colorful.Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c, Alpha: alpha, GlowOn: r.blur > 0})
}

func (r *Recorder) FillCircle(x, y, rad float64, c colorful.Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: "circle", X: x, Y: y, R: rad, Color: c, Alpha: alpha, GlowOn: r.blur > 0})
}

func (r *Recorder) FillGlyph(x, y float64, g rune, size float64, c colorful.Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: "glyph", X: x, Y: y, R: size, Glyph: g, Color: c, Alpha: alpha, GlowOn: r.blur > 0})
}

func (r *Recorder) SetGlow(c colorful.Color, blur float64) {
	r.blur = blur
	r.Ops = append(r.Ops, Op{Kind: "glow", R: blur, Color: c})
}

func (r *Recorder) Present() {
	r.Presents++
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Presents = 0
}
