// Package charts builds typed ECharts option documents. Each chart kind
// validates its own shape before it is serialized for the browser.
package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidChart = errors.New("invalid chart")

// Chart is any option document that can check itself.
type Chart interface {
	Validate() error
}

// Marshal validates c and encodes it.
func Marshal(c Chart) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidChart, fmt.Sprintf(format, args...))
}

type TextStyle struct {
	Color    string `json:"color,omitempty"`
	FontSize int    `json:"fontSize,omitempty"`
}

type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type AxisLine struct {
	LineStyle LineStyle `json:"lineStyle"`
}

type SplitLine struct {
	LineStyle LineStyle `json:"lineStyle"`
}

type SplitArea struct {
	Show bool `json:"show"`
}

type AxisLabel struct {
	Color     string `json:"color,omitempty"`
	Formatter string `json:"formatter,omitempty"`
	Rotate    int    `json:"rotate,omitempty"`
	FontSize  int    `json:"fontSize,omitempty"`
}

type Axis struct {
	Type      string     `json:"type"`
	Data      []string   `json:"data,omitempty"`
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	AxisLine  *AxisLine  `json:"axisLine,omitempty"`
	AxisLabel *AxisLabel `json:"axisLabel,omitempty"`
	SplitLine *SplitLine `json:"splitLine,omitempty"`
}

func (a Axis) validateRange() error {
	if a.Min != nil && a.Max != nil && !(*a.Min < *a.Max) {
		return invalid("axis min %v is not below max %v", *a.Min, *a.Max)
	}
	return nil
}

type Grid struct {
	Left         string `json:"left,omitempty"`
	Right        string `json:"right,omitempty"`
	Bottom       string `json:"bottom,omitempty"`
	ContainLabel bool   `json:"containLabel"`
}

type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Gradient is a linear gradient from (X, Y) to (X2, Y2) in unit space.
type Gradient struct {
	X, Y, X2, Y2 float64
	ColorStops   []ColorStop
}

func (g Gradient) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string      `json:"type"`
		X          float64     `json:"x"`
		Y          float64     `json:"y"`
		X2         float64     `json:"x2"`
		Y2         float64     `json:"y2"`
		ColorStops []ColorStop `json:"colorStops"`
	}{"linear", g.X, g.Y, g.X2, g.Y2, g.ColorStops})
}

// Vertical returns a top-to-bottom gradient.
func Vertical(top, bottom string) *Gradient {
	return &Gradient{Y2: 1, ColorStops: []ColorStop{{0, top}, {1, bottom}}}
}

// Fill is a solid color or a gradient.
type Fill struct {
	Solid    string
	Gradient *Gradient
}

func Solid(c string) *Fill { return &Fill{Solid: c} }

func (f Fill) MarshalJSON() ([]byte, error) {
	if f.Gradient != nil {
		return json.Marshal(f.Gradient)
	}
	return json.Marshal(f.Solid)
}

type ItemStyle struct {
	Color         *Fill   `json:"color,omitempty"`
	BorderColor   string  `json:"borderColor,omitempty"`
	BorderWidth   float64 `json:"borderWidth,omitempty"`
	ShadowBlur    float64 `json:"shadowBlur,omitempty"`
	ShadowOffsetX float64 `json:"shadowOffsetX,omitempty"`
	ShadowColor   string  `json:"shadowColor,omitempty"`
}

type AreaStyle struct {
	Color *Fill `json:"color,omitempty"`
}

type Emphasis struct {
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
}

type Legend struct {
	Show      bool       `json:"show"`
	Data      []string   `json:"data,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
}

func checkValues(kind string, data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s value %d is not finite", kind, i)
		}
	}
	return nil
}

// Category charts: line and bar.

type LineSeries struct {
	Name      string     `json:"name"`
	Data      []float64  `json:"data"`
	Smooth    bool       `json:"smooth,omitempty"`
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
	AreaStyle *AreaStyle `json:"areaStyle,omitempty"`
}

func (s LineSeries) MarshalJSON() ([]byte, error) {
	type plain LineSeries
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"line", plain(s)})
}

type Line struct {
	BackgroundColor string       `json:"backgroundColor"`
	TextStyle       TextStyle    `json:"textStyle"`
	Grid            *Grid        `json:"grid,omitempty"`
	XAxis           Axis         `json:"xAxis"`
	YAxis           Axis         `json:"yAxis"`
	Series          []LineSeries `json:"series"`
}

func (c Line) Validate() error {
	if len(c.Series) == 0 {
		return invalid("line chart has no series")
	}
	if err := c.YAxis.validateRange(); err != nil {
		return err
	}
	for _, s := range c.Series {
		if c.XAxis.Type == "category" && len(s.Data) != len(c.XAxis.Data) {
			return invalid("series %q has %d values for %d categories", s.Name, len(s.Data), len(c.XAxis.Data))
		}
		if err := checkValues("line", s.Data); err != nil {
			return err
		}
	}
	return nil
}

type BarSeries struct {
	Name      string     `json:"name"`
	Data      []float64  `json:"data"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
	Emphasis  *Emphasis  `json:"emphasis,omitempty"`
}

func (s BarSeries) MarshalJSON() ([]byte, error) {
	type plain BarSeries
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"bar", plain(s)})
}

type Bar struct {
	BackgroundColor string      `json:"backgroundColor"`
	TextStyle       TextStyle   `json:"textStyle"`
	Grid            *Grid       `json:"grid,omitempty"`
	XAxis           Axis        `json:"xAxis"`
	YAxis           Axis        `json:"yAxis"`
	Series          []BarSeries `json:"series"`
}

func (c Bar) Validate() error {
	if len(c.Series) == 0 {
		return invalid("bar chart has no series")
	}
	if err := c.YAxis.validateRange(); err != nil {
		return err
	}
	for _, s := range c.Series {
		if len(s.Data) != len(c.XAxis.Data) {
			return invalid("series %q has %d values for %d categories", s.Name, len(s.Data), len(c.XAxis.Data))
		}
		if err := checkValues("bar", s.Data); err != nil {
			return err
		}
	}
	return nil
}

// Pie.

type PieSlice struct {
	Value     float64    `json:"value"`
	Name      string     `json:"name"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
}

type PieLabel struct {
	Color     string `json:"color,omitempty"`
	Formatter string `json:"formatter,omitempty"`
}

type PieSeries struct {
	Name     string     `json:"name"`
	Radius   [2]string  `json:"radius"`
	Center   [2]string  `json:"center"`
	Data     []PieSlice `json:"data"`
	Emphasis *Emphasis  `json:"emphasis,omitempty"`
	Label    *PieLabel  `json:"label,omitempty"`
}

func (s PieSeries) MarshalJSON() ([]byte, error) {
	type plain PieSeries
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"pie", plain(s)})
}

type Pie struct {
	BackgroundColor string      `json:"backgroundColor"`
	TextStyle       TextStyle   `json:"textStyle"`
	Series          []PieSeries `json:"series"`
}

func (c Pie) Validate() error {
	if len(c.Series) == 0 {
		return invalid("pie chart has no series")
	}
	for _, s := range c.Series {
		if len(s.Data) == 0 {
			return invalid("pie series %q has no slices", s.Name)
		}
		for _, sl := range s.Data {
			if sl.Value < 0 || math.IsNaN(sl.Value) || math.IsInf(sl.Value, 0) {
				return invalid("pie slice %q has value %v", sl.Name, sl.Value)
			}
		}
	}
	return nil
}

// Radar.

type Indicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

type RadarCoord struct {
	Indicator []Indicator `json:"indicator"`
	AxisName  *TextStyle  `json:"axisName,omitempty"`
	SplitLine *SplitLine  `json:"splitLine,omitempty"`
	SplitArea *SplitArea  `json:"splitArea,omitempty"`
	AxisLine  *AxisLine   `json:"axisLine,omitempty"`
}

type RadarValue struct {
	Value     []float64  `json:"value"`
	Name      string     `json:"name"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
	AreaStyle *AreaStyle `json:"areaStyle,omitempty"`
}

type RadarSeries struct {
	Name string       `json:"name"`
	Data []RadarValue `json:"data"`
}

func (s RadarSeries) MarshalJSON() ([]byte, error) {
	type plain RadarSeries
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{"radar", plain(s)})
}

type Radar struct {
	BackgroundColor string        `json:"backgroundColor"`
	TextStyle       TextStyle     `json:"textStyle"`
	Legend          *Legend       `json:"legend,omitempty"`
	Radar           RadarCoord    `json:"radar"`
	Series          []RadarSeries `json:"series"`
}

func (c Radar) Validate() error {
	n := len(c.Radar.Indicator)
	if n == 0 {
		return invalid("radar has no indicators")
	}
	if len(c.Series) == 0 {
		return invalid("radar has no series")
	}
	for _, s := range c.Series {
		for _, v := range s.Data {
			if len(v.Value) != n {
				return invalid("radar value %q has %d entries for %d indicators", v.Name, len(v.Value), n)
			}
			for i, x := range v.Value {
				if max := c.Radar.Indicator[i].Max; !(x >= 0 && x <= max) {
					return invalid("radar value %q %s = %v outside [0, %v]", v.Name, c.Radar.Indicator[i].Name, x, max)
				}
			}
		}
	}
	return nil
}
