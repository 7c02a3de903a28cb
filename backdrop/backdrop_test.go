package backdrop

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"ufc-predict/particle"
)

var (
	black = colorful.Color{}
	red   = colorful.Color{R: 1}
)

func TestSnapshotWritesSVG(t *testing.T) {
	for _, name := range particle.Names() {
		v, err := particle.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		svg := Snapshot(v, 800, 600, 10, 7)
		if svg.Frames() == 0 || svg.Shapes() == 0 {
			t.Fatalf("%s: empty snapshot", name)
		}

		var buf bytes.Buffer
		n, err := svg.WriteTo(&buf)
		if err != nil {
			t.Fatalf("%s: WriteTo: %v", name, err)
		}
		if n != int64(buf.Len()) {
			t.Errorf("%s: WriteTo reported %d bytes, wrote %d", name, n, buf.Len())
		}
		out := buf.String()
		if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"`) {
			t.Errorf("%s: unexpected header %.80q", name, out)
		}
		if !strings.HasSuffix(out, "</svg>") {
			t.Errorf("%s: document not closed", name)
		}
		if name == "stream" {
			if !strings.Contains(out, "<text") {
				t.Errorf("stream snapshot has no glyphs")
			}
		} else if !strings.Contains(out, "<circle") || !strings.Contains(out, `filter="url(#glow0)"`) {
			t.Errorf("%s: snapshot lacks glowing circles", name)
		}
	}
}

func TestSVGTrailFade(t *testing.T) {
	svg := NewSVG(black, 100)
	svg.Resize(100, 100)

	svg.FillRect(0, 0, 100, 100, black, 0.5)
	svg.FillCircle(10, 10, 2, red, 1)
	svg.FillRect(0, 0, 100, 100, black, 0.5)
	svg.FillCircle(20, 20, 2, red, 1)

	if svg.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", svg.Frames())
	}
	if svg.fades[0] != 0.5 || svg.fades[1] != 1 {
		t.Errorf("fades = %v, want [0.5 1]", svg.fades)
	}

	// 0.5^6 drops below the visibility floor.
	for i := 0; i < 5; i++ {
		svg.FillRect(0, 0, 100, 100, black, 0.5)
	}
	if svg.Shapes() != 1 {
		t.Errorf("shapes = %d, want only the newer circle left", svg.Shapes())
	}
}

func TestSVGKeepsAtMostMaxFrames(t *testing.T) {
	svg := NewSVG(black, 4)
	svg.Resize(10, 10)
	for i := 0; i < 20; i++ {
		svg.FillRect(0, 0, 10, 10, black, 0.01)
		svg.FillCircle(1, 1, 1, red, 1)
	}
	if svg.Frames() != 4 {
		t.Errorf("frames = %d, want 4", svg.Frames())
	}
}

func TestSVGResizeClears(t *testing.T) {
	svg := NewSVG(black, 0)
	svg.Resize(10, 10)
	svg.FillCircle(1, 1, 1, red, 1)
	svg.Resize(20, 20)
	if svg.Shapes() != 0 {
		t.Errorf("shapes after resize = %d, want 0", svg.Shapes())
	}
}

func TestSVGGlowFiltersDeduplicated(t *testing.T) {
	svg := NewSVG(black, 0)
	svg.Resize(10, 10)
	for i := 0; i < 3; i++ {
		svg.SetGlow(red, 10)
		svg.FillCircle(1, 1, 1, red, 1)
	}
	svg.SetGlow(red, 40)
	svg.FillCircle(1, 1, 1, red, 1)
	svg.SetGlow(black, 0)
	svg.FillCircle(1, 1, 1, red, 1)

	if len(svg.filters) != 2 {
		t.Errorf("filters = %d, want 2", len(svg.filters))
	}
	last := svg.frames[len(svg.frames)-1]
	if last[len(last)-1].glow != "" {
		t.Error("glow still applied after reset")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"}, {1, "1"}, {0.5, "0.5"}, {12.346, "12.35"}, {100, "100"}, {math.NaN(), "0"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func TestTerminalCircleColorsCell(t *testing.T) {
	term := NewTerminal(newSimScreen(t, 20, 10))
	term.Resize(PixelSize(20, 10))
	if term.Cols() != 20 || term.Rows() != 10 {
		t.Fatalf("grid = %dx%d, want 20x10", term.Cols(), term.Rows())
	}

	// Center of cell (2,3).
	term.FillCircle(2*CellWidth+4, 3*CellHeight+8, 1, red, 1)
	if got := term.Cell(2, 3); got != red {
		t.Errorf("cell (2,3) = %v, want %v", got, red)
	}
	if got := term.Cell(5, 5); got != black {
		t.Errorf("untouched cell = %v, want black", got)
	}
}

func TestTerminalCellOutsideGrid(t *testing.T) {
	term := NewTerminal(newSimScreen(t, 4, 3))
	term.Resize(PixelSize(4, 3))
	term.FillRect(0, 0, 4*CellWidth, 3*CellHeight, red, 1)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		if got := term.Cell(pos[0], pos[1]); got != (colorful.Color{}) {
			t.Errorf("cell %v = %v, want zero color", pos, got)
		}
	}
	if got := term.Cell(3, 2); got != red {
		t.Errorf("cell (3,2) = %v, want %v", got, red)
	}
}

func TestTerminalTrailFade(t *testing.T) {
	term := NewTerminal(newSimScreen(t, 4, 4))
	term.Resize(PixelSize(4, 4))
	term.FillCircle(4, 8, 1, red, 1)
	term.FillRect(0, 0, 32, 64, black, 0.5)

	if got := term.Cell(0, 0).R; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("faded red = %v, want 0.5", got)
	}
}

func TestTerminalGlowFallsOff(t *testing.T) {
	term := NewTerminal(newSimScreen(t, 10, 10))
	term.Resize(PixelSize(10, 10))
	term.SetGlow(red, 40)
	term.FillCircle(4*CellWidth+4, 4*CellHeight+8, 1, black, 1)

	near, far := term.Cell(5, 4).R, term.Cell(8, 4).R
	if near <= 0 {
		t.Fatal("no glow next to the particle")
	}
	if far >= near {
		t.Errorf("glow did not fall off: near %v, far %v", near, far)
	}
	if term.Cell(0, 0).R != 0 {
		t.Error("glow reached beyond its radius")
	}
}

func TestTerminalPresentWritesGlyphs(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	term := NewTerminal(screen)
	term.Resize(PixelSize(10, 5))
	term.FillGlyph(4*CellWidth, 2*CellHeight, '7', 14, red, 1)
	term.FillGlyph(-5, -5, 'x', 14, red, 1)
	term.Present()

	if r, _, _, _ := screen.GetContent(4, 2); r != '7' {
		t.Errorf("cell (4,2) = %q, want '7'", r)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != ' ' {
		t.Errorf("cell (0,0) = %q, want blank", r)
	}
}

func TestTerminalDrivenByController(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	term := NewTerminal(screen)
	w, h := PixelSize(40, 20)
	v, _ := particle.Lookup("haze")
	sched := &particle.ManualScheduler{}
	c := particle.NewController(v, term, particle.NewWindow(w, h), sched, particle.WithSeed(9))
	c.Start()
	sched.StepN(3)
	c.Stop()

	lit := 0
	for row := 0; row < term.Rows(); row++ {
		for col := 0; col < term.Cols(); col++ {
			if term.Cell(col, row) != black {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no cells painted after three frames")
	}
}
