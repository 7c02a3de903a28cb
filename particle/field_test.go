package particle

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestAreaCount(t *testing.T) {
	tests := []struct {
		w, h, density int
		want          int
	}{
		{800, 600, 15000, 32},
		{1920, 1080, 15000, 138},
		{1920, 1080, 20000, 103},
		{1920, 1080, 30000, 69},
		{0, 600, 15000, 0},
		{800, 0, 15000, 0},
		{-5, 600, 15000, 0},
		{100, 100, 15000, 0},
		{150, 100, 15000, 1},
	}
	for _, tt := range tests {
		if got := AreaCount(tt.w, tt.h, tt.density); got != tt.want {
			t.Errorf("AreaCount(%d, %d, %d) = %d, want %d", tt.w, tt.h, tt.density, got, tt.want)
		}
	}
}

func TestFieldSizeFollowsDensity(t *testing.T) {
	dims := [][2]int{{0, 0}, {1, 1}, {320, 240}, {800, 600}, {1366, 768}, {2560, 1440}, {7, 50000}}
	for _, name := range []string{"blood", "ember", "haze"} {
		v, err := Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		f := NewField(v.Behavior, testRand())
		for _, d := range dims {
			f.Initialize(d[0], d[1])
			want := int(math.Floor(float64(d[0]) * float64(d[1]) / float64(v.Density())))
			if f.Len() != want {
				t.Errorf("%s %dx%d: len = %d, want %d", name, d[0], d[1], f.Len(), want)
			}
		}
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	v, _ := Lookup("blood")
	f := NewField(v.Behavior, testRand())
	for i := 0; i < 3; i++ {
		f.Initialize(800, 600)
		if f.Len() != 32 {
			t.Fatalf("pass %d: len = %d, want 32", i, f.Len())
		}
	}
	f.Initialize(-10, -10)
	if f.Len() != 0 {
		t.Errorf("negative viewport: len = %d, want 0", f.Len())
	}
}

func TestOpacityNonIncreasingUntilRecycle(t *testing.T) {
	for _, name := range []string{"blood", "ember", "haze"} {
		v, _ := Lookup(name)
		f := NewField(v.Behavior, testRand())
		f.Initialize(800, 600)

		prev := make([]float64, f.Len())
		for i := range prev {
			prev[i] = f.At(i).Opacity
		}

		for frame := 0; frame < 2000; frame++ {
			for i := 0; i < f.Len(); i++ {
				recycled := f.step(i)
				op := f.At(i).Opacity
				if recycled {
					if op <= 0 || op > 1 {
						t.Fatalf("%s frame %d slot %d: recycled opacity %v out of range", name, frame, i, op)
					}
				} else if op > prev[i] {
					t.Fatalf("%s frame %d slot %d: opacity rose from %v to %v", name, frame, i, prev[i], op)
				}
				prev[i] = op
			}
		}
	}
}

func TestBloodRecycleResetsOpacityRange(t *testing.T) {
	v, _ := Lookup("blood")
	f := NewField(v.Behavior, testRand())
	f.Initialize(800, 600)

	f.particles[0].Opacity = 0.0005
	if !f.step(0) {
		t.Fatal("expected faded particle to be recycled")
	}
	if op := f.At(0).Opacity; op < 0.3 || op >= 0.8 {
		t.Errorf("recycled opacity = %v, want [0.3, 0.8)", op)
	}
}

func TestOutOfBoundsRecycledWithinOneFrame(t *testing.T) {
	for _, name := range Names() {
		v, _ := Lookup(name)
		f := NewField(v.Behavior, testRand())
		f.Initialize(800, 600)
		if f.Len() == 0 {
			t.Fatalf("%s: empty field", name)
		}

		n := f.Len()
		f.particles[0].X = 800 + 5000
		f.particles[0].Y = 600 + 5000
		if !f.step(0) {
			t.Errorf("%s: particle far outside bounds was not recycled", name)
		}
		if f.Len() != n {
			t.Errorf("%s: field length changed on recycle", name)
		}
	}
}

func TestNonFiniteParticleRecycled(t *testing.T) {
	v, _ := Lookup("haze")
	f := NewField(v.Behavior, testRand())
	f.Initialize(800, 600)

	f.particles[0].X = math.NaN()
	if !f.step(0) {
		t.Fatal("NaN particle was not recycled")
	}
	if !f.At(0).finite() {
		t.Error("replacement is not finite")
	}
}

func TestStreamColumns(t *testing.T) {
	v, _ := Lookup("stream")
	f := NewField(v.Behavior, testRand())
	f.Initialize(140, 600)
	if f.Len() != 10 {
		t.Fatalf("len = %d, want 10", f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		if p.X != float64(i)*14 {
			t.Errorf("column %d x = %v, want %v", i, p.X, float64(i)*14)
		}
		if p.Y != 14 {
			t.Errorf("column %d starts at y = %v, want 14", i, p.Y)
		}
	}

	// A column stays in its slot when it restarts.
	f.particles[3].Y = 600 + 41*14
	if !f.step(3) {
		t.Fatal("column past the margin did not restart")
	}
	if p := f.At(3); p.X != 42 || p.Y != 14 {
		t.Errorf("restarted column at (%v, %v), want (42, 14)", p.X, p.Y)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"blood", "ember", "haze", "stream"} {
		v, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if v.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, v.Name)
		}
	}
	if _, err := Lookup("confetti"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Lookup(confetti) error = %v, want ErrUnknownVariant", err)
	}
}
