package charts

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"ufc-predict/ufcdata"
)

const (
	textPrimary   = "#e4e4e7"
	textSecondary = "#a1a1aa"
	textTertiary  = "#71717a"
	red           = "#dc2626"
	darkRed       = "#991b1b"
	brightRed     = "#ef4444"
	green         = "#22c55e"
	amber         = "#f59e0b"
	rule          = "rgba(255, 255, 255, 0.1)"
	redArea       = "rgba(220, 38, 38, 0.2)"
	greyArea      = "rgba(161, 161, 170, 0.2)"
)

func bound(v float64) *float64 { return &v }

func categoryAxis(labels []string) Axis {
	return Axis{
		Type:      "category",
		Data:      labels,
		AxisLine:  &AxisLine{LineStyle: LineStyle{Color: rule}},
		AxisLabel: &AxisLabel{Color: textTertiary},
	}
}

func percentAxis(min, max float64) Axis {
	return Axis{
		Type:      "value",
		Min:       bound(min),
		Max:       bound(max),
		AxisLine:  &AxisLine{LineStyle: LineStyle{Color: rule}},
		AxisLabel: &AxisLabel{Color: textTertiary, Formatter: "{value}%"},
		SplitLine: &SplitLine{LineStyle: LineStyle{Color: rule}},
	}
}

func redLine(name string, data []float64) LineSeries {
	return LineSeries{
		Name:      name,
		Data:      data,
		Smooth:    true,
		LineStyle: &LineStyle{Color: red, Width: 3},
		ItemStyle: &ItemStyle{Color: Solid(red), BorderColor: "#ffffff", BorderWidth: 2},
		AreaStyle: &AreaStyle{Color: &Fill{Gradient: Vertical("rgba(220, 38, 38, 0.3)", "rgba(220, 38, 38, 0.05)")}},
	}
}

// MonthLabel renders "2025-01" as "Jan 25". Unparseable months pass through.
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan 06")
}

// AccuracyTrend plots monthly prediction accuracy.
func AccuracyTrend(stats ufcdata.AccuracyStats) Line {
	labels := make([]string, len(stats.MonthlyAccuracy))
	data := make([]float64, len(stats.MonthlyAccuracy))
	for i, m := range stats.MonthlyAccuracy {
		labels[i] = MonthLabel(m.Month)
		data[i] = m.Accuracy
	}
	return Line{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Grid:            &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true},
		XAxis:           categoryAxis(labels),
		YAxis:           percentAxis(80, 95),
		Series:          []LineSeries{redLine("Accuracy", data)},
	}
}

// DivisionAccuracy is a bar per weight class.
func DivisionAccuracy(stats ufcdata.AccuracyStats) Bar {
	labels := make([]string, len(stats.ByDivision))
	data := make([]float64, len(stats.ByDivision))
	for i, d := range stats.ByDivision {
		labels[i] = strings.Replace(d.Division, "Women's ", "", 1)
		data[i] = d.Accuracy
	}
	x := categoryAxis(labels)
	x.AxisLabel.Rotate = 45
	x.AxisLabel.FontSize = 10
	return Bar{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Grid:            &Grid{Left: "3%", Right: "4%", Bottom: "15%", ContainLabel: true},
		XAxis:           x,
		YAxis:           percentAxis(70, 100),
		Series: []BarSeries{{
			Name:      "Accuracy",
			Data:      data,
			ItemStyle: &ItemStyle{Color: &Fill{Gradient: Vertical(red, darkRed)}},
			Emphasis:  &Emphasis{ItemStyle: &ItemStyle{Color: Solid(brightRed)}},
		}},
	}
}

func methodColor(method string) string {
	switch method {
	case "KO/TKO":
		return red
	case "Submission":
		return green
	}
	return amber
}

// MethodBreakdown is a donut of accuracy by finish method.
func MethodBreakdown(stats ufcdata.AccuracyStats) Pie {
	slices := make([]PieSlice, len(stats.ByMethod))
	for i, m := range stats.ByMethod {
		slices[i] = PieSlice{Value: m.Accuracy, Name: m.Method, ItemStyle: &ItemStyle{Color: Solid(methodColor(m.Method))}}
	}
	return Pie{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Series: []PieSeries{{
			Name:   "Method Breakdown",
			Radius: [2]string{"40%", "70%"},
			Center: [2]string{"50%", "50%"},
			Data:   slices,
			Emphasis: &Emphasis{ItemStyle: &ItemStyle{
				ShadowBlur: 10, ShadowColor: "rgba(0, 0, 0, 0.5)",
			}},
			Label: &PieLabel{Color: textPrimary, Formatter: "{b}: {c}%\n({d}%)"},
		}},
	}
}

type axis struct {
	name  string
	value func(ufcdata.Style) float64
}

var styleAxes = []axis{
	{"Striking", func(s ufcdata.Style) float64 { return s.Striking }},
	{"Grappling", func(s ufcdata.Style) float64 { return s.Grappling }},
	{"Power", func(s ufcdata.Style) float64 { return s.Power }},
	{"Speed", func(s ufcdata.Style) float64 { return s.Speed }},
	{"Cardio", func(s ufcdata.Style) float64 { return s.Cardio }},
	{"Defense", func(s ufcdata.Style) float64 { return s.Defense }},
	{"Clinch", func(s ufcdata.Style) float64 { return s.Clinch }},
	{"Ground", func(s ufcdata.Style) float64 { return s.Ground }},
}

const styleMax = 10

func radarCoord(axes []axis) RadarCoord {
	ind := make([]Indicator, len(axes))
	for i, a := range axes {
		ind[i] = Indicator{Name: a.name, Max: styleMax}
	}
	return RadarCoord{
		Indicator: ind,
		AxisName:  &TextStyle{Color: textSecondary},
		SplitLine: &SplitLine{LineStyle: LineStyle{Color: rule}},
		SplitArea: &SplitArea{Show: false},
		AxisLine:  &AxisLine{LineStyle: LineStyle{Color: rule}},
	}
}

// ratings reads the style values for axes, clamped to the radar scale.
func ratings(s ufcdata.Style, axes []axis) []float64 {
	out := make([]float64, len(axes))
	for i, a := range axes {
		out[i] = clamp(a.value(s), 0, styleMax)
	}
	return out
}

// StyleRadar plots all eight style ratings of one fighter.
func StyleRadar(f ufcdata.Fighter) Radar {
	return Radar{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Legend:          &Legend{Show: false},
		Radar:           radarCoord(styleAxes),
		Series: []RadarSeries{{
			Name: "Fighting Style",
			Data: []RadarValue{{
				Value:     ratings(f.Style, styleAxes),
				Name:      f.Name,
				ItemStyle: &ItemStyle{Color: Solid(red)},
				AreaStyle: &AreaStyle{Color: Solid(redArea)},
			}},
		}},
	}
}

// Comparison overlays the first six style ratings of two fighters.
func Comparison(a, b ufcdata.Fighter) Radar {
	axes := styleAxes[:6]
	return Radar{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Legend:          &Legend{Show: true, Data: []string{a.Name, b.Name}, TextStyle: &TextStyle{Color: textSecondary}},
		Radar:           radarCoord(axes),
		Series: []RadarSeries{{
			Name: "Fighter Comparison",
			Data: []RadarValue{
				{Value: ratings(a.Style, axes), Name: a.Name, ItemStyle: &ItemStyle{Color: Solid(red)}, AreaStyle: &AreaStyle{Color: Solid(redArea)}},
				{Value: ratings(b.Style, axes), Name: b.Name, ItemStyle: &ItemStyle{Color: Solid(textSecondary)}, AreaStyle: &AreaStyle{Color: Solid(greyArea)}},
			},
		}},
	}
}

// Rounds is the length of the round-by-round probability chart.
const Rounds = 5

// WinProbabilityByRound sketches fighter A's win probability per round. Up
// to the predicted round each value wanders up to 5 points from the
// prediction; afterwards it holds.
func WinProbabilityByRound(f ufcdata.Fight, rng *rand.Rand) Line {
	labels := make([]string, Rounds)
	data := make([]float64, Rounds)
	p := f.Prediction.WinProbability
	for r := 1; r <= Rounds; r++ {
		v := p
		if r <= f.Prediction.Round {
			v += (rng.Float64() - 0.5) * 10
		}
		labels[r-1] = fmt.Sprintf("Round %d", r)
		data[r-1] = clamp(v, 0, 100)
	}
	return Line{
		BackgroundColor: "transparent",
		TextStyle:       TextStyle{Color: textPrimary},
		Grid:            &Grid{Left: "3%", Right: "4%", Bottom: "3%", ContainLabel: true},
		XAxis:           categoryAxis(labels),
		YAxis:           percentAxis(0, 100),
		Series:          []LineSeries{redLine("Win Probability", data)},
	}
}

// SeedFor derives a stable generator from an id, so a page renders the
// same chart on every request.
func SeedFor(id string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(id))
	s := h.Sum64()
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
