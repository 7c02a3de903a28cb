package backdrop

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Default cell geometry in surface pixels. Terminal cells are roughly twice
// as tall as they are wide.
const (
	CellWidth  = 8
	CellHeight = 16
)

// glowFalloff scales glow intensity relative to the shape's own alpha.
const glowFalloff = 0.5

type cell struct {
	bg    colorful.Color
	fg    colorful.Color
	glyph rune
	ink   float64 // glyph intensity, faded with the background
}

// Terminal is a particle.Surface backed by a tcell screen. Pixels map onto
// character cells; each cell keeps a float color so the trail fade and glow
// can be alpha-blended before the frame is pushed to the screen.
type Terminal struct {
	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int
	cells        []cell
	glow         colorful.Color
	blur         float64
}

// NewTerminal returns a surface drawing onto screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, cellW: CellWidth, cellH: CellHeight}
}

// PixelSize converts a screen size in cells to surface pixels.
func PixelSize(cols, rows int) (int, int) {
	return cols * CellWidth, rows * CellHeight
}

func (t *Terminal) Resize(w, h int) {
	t.cols = int(float64(w) / t.cellW)
	t.rows = int(float64(h) / t.cellH)
	t.cells = make([]cell, t.cols*t.rows)
	t.screen.Clear()
}

// Cols returns the surface width in cells.
func (t *Terminal) Cols() int { return t.cols }

// Rows returns the surface height in cells.
func (t *Terminal) Rows() int { return t.rows }

func (t *Terminal) FillRect(x, y, w, h float64, c colorful.Color, alpha float64) {
	c0, r0 := t.cellAt(x, y)
	c1, r1 := t.cellAt(x+w, y+h)
	for row := max(r0, 0); row < min(r1+1, t.rows); row++ {
		for col := max(c0, 0); col < min(c1+1, t.cols); col++ {
			cl := &t.cells[row*t.cols+col]
			cl.bg = cl.bg.BlendRgb(c, clamp01(alpha)).Clamped()
			cl.ink *= 1 - clamp01(alpha)
			if cl.ink < minLayerOpacity {
				cl.glyph, cl.ink = 0, 0
			}
		}
	}
}

func (t *Terminal) FillCircle(x, y, r float64, c colorful.Color, alpha float64) {
	reach := r + t.blur
	c0, r0 := t.cellAt(x-reach, y-reach)
	c1, r1 := t.cellAt(x+reach, y+reach)
	for row := max(r0, 0); row < min(r1+1, t.rows); row++ {
		for col := max(c0, 0); col < min(c1+1, t.cols); col++ {
			cx := (float64(col) + 0.5) * t.cellW
			cy := (float64(row) + 0.5) * t.cellH
			d := math.Hypot(cx-x, cy-y)
			cl := &t.cells[row*t.cols+col]

			// A cell is larger than most particles, so the core colors the
			// cell containing the center even when the radius is smaller.
			if d <= math.Max(r, t.cellW/2) {
				cl.bg = cl.bg.BlendRgb(c, clamp01(alpha)).Clamped()
				continue
			}
			if t.blur > 0 && d <= reach {
				k := (1 - (d-r)/t.blur) * glowFalloff * clamp01(alpha)
				cl.bg = cl.bg.BlendRgb(t.glow, clamp01(k)).Clamped()
			}
		}
	}
}

func (t *Terminal) FillGlyph(x, y float64, g rune, _ float64, c colorful.Color, alpha float64) {
	col, row := t.cellAt(x, y)
	if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
		return
	}
	cl := &t.cells[row*t.cols+col]
	cl.glyph, cl.fg, cl.ink = g, c, clamp01(alpha)
}

func (t *Terminal) SetGlow(c colorful.Color, blur float64) {
	t.glow, t.blur = c, math.Max(blur, 0)
}

// Present pushes the cell buffer to the screen.
func (t *Terminal) Present() {
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			cl := t.cells[row*t.cols+col]
			style := tcell.StyleDefault.Background(toTcell(cl.bg))
			glyph := ' '
			if cl.glyph != 0 {
				glyph = cl.glyph
				style = style.Foreground(toTcell(cl.bg.BlendRgb(cl.fg, cl.ink).Clamped()))
			}
			t.screen.SetContent(col, row, glyph, nil, style)
		}
	}
	t.screen.Show()
}

// Cell returns the blended background color of a cell, or the zero color
// outside the grid.
func (t *Terminal) Cell(col, row int) colorful.Color {
	if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
		return colorful.Color{}
	}
	return t.cells[row*t.cols+col].bg
}

func (t *Terminal) cellAt(x, y float64) (int, int) {
	return int(math.Floor(x / t.cellW)), int(math.Floor(y / t.cellH))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
