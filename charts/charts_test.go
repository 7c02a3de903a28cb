package charts

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"ufc-predict/ufcdata"
)

var stats = ufcdata.AccuracyStats{
	ByDivision: []ufcdata.DivisionAccuracy{
		{Division: "Heavyweight", Accuracy: 84.2},
		{Division: "Women's Strawweight", Accuracy: 89.5},
	},
	ByMethod: []ufcdata.MethodAccuracy{
		{Method: "KO/TKO", Accuracy: 88},
		{Method: "Submission", Accuracy: 82},
		{Method: "Decision", Accuracy: 79},
	},
	MonthlyAccuracy: []ufcdata.MonthlyAccuracy{
		{Month: "2025-01", Accuracy: 84.1},
		{Month: "2025-12", Accuracy: 91.1},
	},
}

func TestMonthLabel(t *testing.T) {
	tests := map[string]string{
		"2025-01": "Jan 25",
		"2026-09": "Sep 26",
		"Q3":      "Q3",
	}
	for in, want := range tests {
		if got := MonthLabel(in); got != want {
			t.Errorf("MonthLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAccuracyTrend(t *testing.T) {
	c := AccuracyTrend(stats)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(c.XAxis.Data, ","); got != "Jan 25,Dec 25" {
		t.Errorf("labels = %s", got)
	}
	if *c.YAxis.Min != 80 || *c.YAxis.Max != 95 {
		t.Errorf("y range = %v..%v", *c.YAxis.Min, *c.YAxis.Max)
	}
}

func TestDivisionAccuracyStripsPrefix(t *testing.T) {
	c := DivisionAccuracy(stats)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.XAxis.Data[1] != "Strawweight" {
		t.Errorf("label = %q", c.XAxis.Data[1])
	}
	if c.XAxis.AxisLabel.Rotate != 45 {
		t.Errorf("rotate = %d", c.XAxis.AxisLabel.Rotate)
	}
}

func TestMethodBreakdownColors(t *testing.T) {
	c := MethodBreakdown(stats)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	want := []string{red, green, amber}
	for i, s := range c.Series[0].Data {
		if s.ItemStyle.Color.Solid != want[i] {
			t.Errorf("%s color = %s, want %s", s.Name, s.ItemStyle.Color.Solid, want[i])
		}
	}
}

func TestStyleRadar(t *testing.T) {
	f := ufcdata.Fighter{Name: "Marco Vega", Style: ufcdata.Style{
		Striking: 9.2, Grappling: 7, Power: 12, Speed: 8, Cardio: 9, Defense: 8, Clinch: 7, Ground: -1,
	}}
	c := StyleRadar(f)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(c.Radar.Indicator) != 8 {
		t.Errorf("indicators = %d, want 8", len(c.Radar.Indicator))
	}
	v := c.Series[0].Data[0].Value
	if v[2] != 10 || v[7] != 0 {
		t.Errorf("out-of-scale ratings not clamped: %v", v)
	}
}

func TestComparison(t *testing.T) {
	a := ufcdata.Fighter{Name: "A", Style: ufcdata.Style{Striking: 9}}
	b := ufcdata.Fighter{Name: "B", Style: ufcdata.Style{Grappling: 9}}
	c := Comparison(a, b)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(c.Radar.Indicator) != 6 || len(c.Series[0].Data) != 2 {
		t.Fatalf("shape = %d indicators, %d values", len(c.Radar.Indicator), len(c.Series[0].Data))
	}
	if c.Series[0].Data[1].ItemStyle.Color.Solid != textSecondary {
		t.Errorf("second fighter color = %s", c.Series[0].Data[1].ItemStyle.Color.Solid)
	}
}

func TestWinProbabilityByRound(t *testing.T) {
	f := ufcdata.Fight{ID: "ufc-330", Prediction: ufcdata.Prediction{WinProbability: 98, Round: 3}}
	c := WinProbabilityByRound(f, SeedFor(f.ID))
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	data := c.Series[0].Data
	if len(data) != Rounds || c.XAxis.Data[0] != "Round 1" {
		t.Fatalf("rounds = %v", c.XAxis.Data)
	}
	for i, v := range data {
		if v < 0 || v > 100 {
			t.Errorf("round %d = %v outside [0, 100]", i+1, v)
		}
		if i < 3 && math.Abs(v-98) > 5 {
			t.Errorf("round %d = %v drifts more than 5 points", i+1, v)
		}
		if i >= 3 && v != 98 {
			t.Errorf("round %d = %v, want the prediction after the predicted round", i+1, v)
		}
	}

	again := WinProbabilityByRound(f, SeedFor(f.ID)).Series[0].Data
	for i := range data {
		if data[i] != again[i] {
			t.Fatal("same id produced a different chart")
		}
	}
}

func TestValidateRejects(t *testing.T) {
	lo, hi := 10.0, 10.0
	tests := []struct {
		name  string
		chart Chart
	}{
		{"line without series", Line{}},
		{"line length mismatch", Line{XAxis: Axis{Type: "category", Data: []string{"a", "b"}}, Series: []LineSeries{{Data: []float64{1}}}}},
		{"line non-finite", Line{XAxis: Axis{Type: "category", Data: []string{"a"}}, Series: []LineSeries{{Data: []float64{math.NaN()}}}}},
		{"bar empty range", Bar{YAxis: Axis{Min: &lo, Max: &hi}, Series: []BarSeries{{}}}},
		{"pie without slices", Pie{Series: []PieSeries{{Name: "x"}}}},
		{"pie negative", Pie{Series: []PieSeries{{Data: []PieSlice{{Value: -1}}}}}},
		{"radar without indicators", Radar{Series: []RadarSeries{{}}}},
		{"radar count mismatch", Radar{
			Radar:  RadarCoord{Indicator: []Indicator{{"a", 10}, {"b", 10}}},
			Series: []RadarSeries{{Data: []RadarValue{{Value: []float64{1}}}}},
		}},
		{"radar over max", Radar{
			Radar:  RadarCoord{Indicator: []Indicator{{"a", 10}}},
			Series: []RadarSeries{{Data: []RadarValue{{Value: []float64{11}}}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.chart.Validate(); !errors.Is(err, ErrInvalidChart) {
				t.Errorf("Validate() = %v, want ErrInvalidChart", err)
			}
			if _, err := Marshal(tt.chart); err == nil {
				t.Error("Marshal accepted an invalid chart")
			}
		})
	}
}

func TestMarshalShape(t *testing.T) {
	b, err := Marshal(DivisionAccuracy(stats))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Series []struct {
			Type      string `json:"type"`
			ItemStyle struct {
				Color struct {
					Type       string `json:"type"`
					Y2         float64
					ColorStops []ColorStop `json:"colorStops"`
				} `json:"color"`
			} `json:"itemStyle"`
		} `json:"series"`
		YAxis struct {
			Min float64 `json:"min"`
		} `json:"yAxis"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	s := doc.Series[0]
	if s.Type != "bar" || s.ItemStyle.Color.Type != "linear" || s.ItemStyle.Color.Y2 != 1 {
		t.Errorf("series = %+v", s)
	}
	if len(s.ItemStyle.Color.ColorStops) != 2 || s.ItemStyle.Color.ColorStops[1].Color != darkRed {
		t.Errorf("stops = %+v", s.ItemStyle.Color.ColorStops)
	}
	if doc.YAxis.Min != 70 {
		t.Errorf("min = %v", doc.YAxis.Min)
	}

	b, err = Marshal(MethodBreakdown(stats))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"color":"#22c55e"`) || !strings.Contains(string(b), `"type":"pie"`) {
		t.Errorf("pie json = %s", b)
	}
}
