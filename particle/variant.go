package particle

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownVariant is returned by Lookup for names with no preset.
var ErrUnknownVariant = errors.New("unknown backdrop variant")

// Frame intervals.
const (
	DisplayRate = time.Second / 60
	StreamRate  = 33 * time.Millisecond
)

// Variant is a named backdrop preset.
type Variant struct {
	Name       string
	Background colorful.Color
	TrailAlpha float64       // opacity of the per-frame background overlay
	Interval   time.Duration // frame interval hint for ticker-driven hosts
	Behavior   Behavior
}

// Density returns the area divisor of an area-sized variant, or zero for
// variants sized some other way.
func (v Variant) Density() int {
	switch b := v.Behavior.(type) {
	case drift:
		return b.density
	case rising:
		return b.density
	case haze:
		return b.density
	}
	return 0
}

var presets = map[string]Variant{
	"blood": {
		Name:       "blood",
		Background: nearBlack,
		TrailAlpha: 0.05,
		Interval:   DisplayRate,
		Behavior: drift{
			density: 15000,
			margin:  20,
			fade:    0.0008,
			blur:    10,
			core:    bloodCore,
			glow:    redPrimary,
		},
	},
	"ember": {
		Name:       "ember",
		Background: nearBlack,
		TrailAlpha: 0.1,
		Interval:   DisplayRate,
		Behavior: rising{
			density: 20000,
			depth:   100,
			margin:  10,
			fade:    0.005,
			blur:    10,
			fill:    redPrimary,
			glow:    emberGlow,
		},
	},
	"haze": {
		Name:       "haze",
		Background: nearBlack,
		TrailAlpha: 0.05,
		Interval:   DisplayRate,
		Behavior: haze{
			density: 30000,
			alpha:   0.05,
			blur:    40,
			fill:    crimson,
			glow:    crimson,
		},
	},
	"stream": {
		Name:       "stream",
		Background: nearBlack,
		TrailAlpha: 0.05,
		Interval:   StreamRate,
		Behavior: stream{
			fontSize: 14,
			chars:    []rune("0123456789.%"),
			colors:   []colorful.Color{redPrimary, textSecond, textThird, textPrimary},
			restart:  0.025,
			margin:   40,
		},
	},
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Variant, error) {
	v, ok := presets[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
