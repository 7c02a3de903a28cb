// Package backdrop provides drawing surfaces for the particle animations: an
// SVG recorder for server-rendered snapshots and a tcell terminal surface.
package backdrop

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"ufc-predict/particle"
)

// minLayerOpacity is the cumulative fade below which an old frame is dropped.
const minLayerOpacity = 0.02

type shape struct {
	kind  byte // 'c' circle, 'r' rect, 'g' glyph
	x, y  float64
	w, h  float64
	r     float64
	glyph rune
	color colorful.Color
	alpha float64
	glow  string // filter id, empty when glow is off
}

type svgFilter struct {
	id    string
	color colorful.Color
	blur  float64
}

// SVG is a particle.Surface that keeps recent frames and writes them as one
// SVG document. A translucent full-surface fill starts a new frame; older
// frames are dimmed by the fill's alpha once per frame, which reproduces the
// motion-trail fade of a canvas that is never cleared.
type SVG struct {
	w, h      int
	bg        colorful.Color
	maxFrames int

	frames  [][]shape // oldest first; last is the frame being drawn
	fades   []float64 // cumulative opacity per frame
	glowID  string
	filters []svgFilter
}

// NewSVG returns an empty surface that keeps at most maxFrames frames.
func NewSVG(bg colorful.Color, maxFrames int) *SVG {
	if maxFrames <= 0 {
		maxFrames = 24
	}
	return &SVG{bg: bg, maxFrames: maxFrames}
}

func (s *SVG) Resize(w, h int) {
	s.w, s.h = w, h
	s.frames = nil
	s.fades = nil
}

func (s *SVG) FillRect(x, y, w, h float64, c colorful.Color, alpha float64) {
	if x <= 0 && y <= 0 && w >= float64(s.w) && h >= float64(s.h) {
		s.fade(alpha)
		return
	}
	s.add(shape{kind: 'r', x: x, y: y, w: w, h: h, color: c, alpha: alpha, glow: s.glowID})
}

// fade dims every kept frame by alpha and opens a new one.
func (s *SVG) fade(alpha float64) {
	if alpha >= 1 {
		s.frames, s.fades = nil, nil
	}
	keep := 1 - alpha
	frames, fades := s.frames[:0], s.fades[:0]
	for i := range s.frames {
		f := s.fades[i] * keep
		if f < minLayerOpacity {
			continue
		}
		frames = append(frames, s.frames[i])
		fades = append(fades, f)
	}
	if over := len(frames) - (s.maxFrames - 1); over > 0 {
		frames, fades = frames[over:], fades[over:]
	}
	s.frames = append(frames, nil)
	s.fades = append(fades, 1)
}

func (s *SVG) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	s.add(shape{kind: 'c', x: x, y: y, r: r, color: c, alpha: alpha, glow: s.glowID})
}

func (s *SVG) FillGlyph(x, y float64, g rune, size float64, c colorful.Color, alpha float64) {
	s.add(shape{kind: 'g', x: x, y: y, r: size, glyph: g, color: c, alpha: alpha, glow: s.glowID})
}

func (s *SVG) SetGlow(c colorful.Color, blur float64) {
	if blur <= 0 {
		s.glowID = ""
		return
	}
	for _, f := range s.filters {
		if f.blur == blur && f.color == c {
			s.glowID = f.id
			return
		}
	}
	id := fmt.Sprintf("glow%d", len(s.filters))
	s.filters = append(s.filters, svgFilter{id: id, color: c, blur: blur})
	s.glowID = id
}

func (s *SVG) add(sh shape) {
	if len(s.frames) == 0 {
		s.frames = [][]shape{nil}
		s.fades = []float64{1}
	}
	last := len(s.frames) - 1
	s.frames[last] = append(s.frames[last], sh)
}

// Frames returns the number of frames currently kept.
func (s *SVG) Frames() int { return len(s.frames) }

// Shapes returns the number of shapes across kept frames.
func (s *SVG) Shapes() int {
	n := 0
	for _, f := range s.frames {
		n += len(f)
	}
	return n
}

// WriteTo writes the SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	fmt.Fprintf(cw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, s.w, s.h, s.w, s.h)
	if len(s.filters) > 0 {
		cw.WriteString("<defs>")
		for _, f := range s.filters {
			fmt.Fprintf(cw, `<filter id="%s" x="-100%%" y="-100%%" width="300%%" height="300%%"><feDropShadow dx="0" dy="0" stdDeviation="%s" flood-color="%s"/></filter>`,
				f.id, num(f.blur/2), f.color.Hex())
		}
		cw.WriteString("</defs>")
	}
	fmt.Fprintf(cw, `<rect width="100%%" height="100%%" fill="%s"/>`, s.bg.Hex())

	for i, frame := range s.frames {
		if len(frame) == 0 {
			continue
		}
		fmt.Fprintf(cw, `<g opacity="%s">`, num(s.fades[i]))
		for _, sh := range frame {
			writeShape(cw, sh)
		}
		cw.WriteString("</g>")
	}
	cw.WriteString("</svg>")

	if err := cw.w.Flush(); err != nil && cw.err == nil {
		cw.err = err
	}
	return cw.n, cw.err
}

func writeShape(w *countingWriter, sh shape) {
	filter := ""
	if sh.glow != "" {
		filter = fmt.Sprintf(` filter="url(#%s)"`, sh.glow)
	}
	fill, op := sh.color.Hex(), num(clamp01(sh.alpha))

	switch sh.kind {
	case 'c':
		fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"%s/>`,
			num(sh.x), num(sh.y), num(sh.r), fill, op, filter)
	case 'r':
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"%s/>`,
			num(sh.x), num(sh.y), num(sh.w), num(sh.h), fill, op, filter)
	case 'g':
		fmt.Fprintf(w, `<text x="%s" y="%s" font-family="monospace" font-size="%s" fill="%s" fill-opacity="%s"%s>%s</text>`,
			num(sh.x), num(sh.y), num(sh.r), fill, op, filter, escapeText(sh.glyph))
	}
}

func escapeText(r rune) string {
	switch r {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '&':
		return "&amp;"
	}
	return string(r)
}

func num(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) WriteString(s string) {
	c.Write([]byte(s))
}

// Snapshot runs variant v for the given number of frames on a w×h SVG
// surface and returns the surface.
func Snapshot(v particle.Variant, w, h, frames int, seed uint64) *SVG {
	svg := NewSVG(v.Background, 0)
	sched := &particle.ManualScheduler{}
	c := particle.NewController(v, svg, particle.NewWindow(w, h), sched, particle.WithSeed(seed))
	c.Start()
	sched.StepN(frames)
	c.Stop()
	return svg
}
