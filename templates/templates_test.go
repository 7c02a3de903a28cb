package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"ufc-predict/ufcdata"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{58, "58%"},
		{87.3, "87.3%"},
		{100 - 58.3, "41.7%"},
		{0, "0%"},
	}
	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(1248); got != "1,248" {
		t.Errorf("Count(1248) = %q", got)
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		path, href string
		want       bool
	}{
		{"/", "/", true},
		{"/fights", "/", false},
		{"/fights", "/fights", true},
		{"/fights?filter=all", "/fights", true},
		{"/accuracy", "/fights", false},
	}
	for _, tt := range tests {
		if got := IsActive(tt.path, tt.href); got != tt.want {
			t.Errorf("IsActive(%q, %q) = %v", tt.path, tt.href, got)
		}
	}
}

func TestCountdownTo(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	got := CountdownTo(now.Add(3*24*time.Hour+5*time.Hour+7*time.Minute+30*time.Second), now)
	if got != (Countdown{Days: 3, Hours: 5, Minutes: 7}) {
		t.Errorf("got %+v", got)
	}
	if got.String() != "3d 5h 7m" {
		t.Errorf("String() = %q", got.String())
	}
	if CountdownTo(now.Add(-time.Hour), now) != (Countdown{}) {
		t.Error("past start should give a zero countdown")
	}
}

func TestFightsPath(t *testing.T) {
	tests := []struct {
		filter, q, want string
	}{
		{"", "", "/fights"},
		{"main-event", "", "/fights?filter=main-event"},
		{"all", "vega orlov", "/fights?filter=all&q=vega+orlov"},
	}
	for _, tt := range tests {
		if got := FightsPath(tt.filter, tt.q); got != tt.want {
			t.Errorf("FightsPath(%q, %q) = %q, want %q", tt.filter, tt.q, got, tt.want)
		}
	}
}

func TestRenderInsightSanitizes(t *testing.T) {
	out, err := RenderInsight("Vega's **power** edge.<script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<strong>power</strong>") {
		t.Errorf("markdown not rendered: %s", out)
	}
	if strings.Contains(out, "<script") {
		t.Errorf("script survived sanitizing: %s", out)
	}
}

var sampleFight = ufcdata.Fight{
	ID:          "ufc-330",
	Event:       "UFC 330",
	Date:        "2026-11-14T19:00:00",
	Venue:       "Madison Square Garden",
	MainEvent:   true,
	WeightClass: "Welterweight",
	Prediction:  ufcdata.Prediction{WinProbability: 58, Confidence: 82, Method: "KO/TKO", Round: 3, AIInsight: "**Power** wins."},
	Fighters: ufcdata.Corners{
		A: ufcdata.FighterSummary{ID: "marco-vega", Name: "Marco <Vega>", Rank: 1, Record: "24-3"},
		B: ufcdata.FighterSummary{ID: "dmitri-orlov", Name: "Dmitri Orlov", Record: "27-1"},
	},
}

func TestPredictionCard(t *testing.T) {
	out := render(t, PredictionCard(sampleFight))
	for _, want := range []string{
		"Main Event",
		"Marco &lt;Vega&gt; vs Dmitri Orlov",
		"KO/TKO, Round 3",
		`class="badge badge-high"`,
		`href="/fight/ufc-330"`,
		"<strong>Power</strong> wins.",
		"42%",
		placeholderPhoto,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q", want)
		}
	}
	if strings.Contains(out, "<Vega>") {
		t.Error("fighter name not escaped")
	}
}

func TestChartContainer(t *testing.T) {
	out := render(t, ChartContainer("trend", "Trend", nil))
	if !strings.Contains(out, "chart-loading") {
		t.Errorf("missing loading placeholder: %s", out)
	}

	out = render(t, ChartContainer("trend", "Trend", json.RawMessage(`{"series":[]}`)))
	if strings.Contains(out, "chart-loading") {
		t.Error("placeholder shown with options present")
	}
	if !strings.Contains(out, `id="trend-options"`) || !strings.Contains(out, `data-chart="trend-options"`) {
		t.Errorf("options script not wired: %s", out)
	}
}

func TestComparisonTableMarksEdge(t *testing.T) {
	rows := []ufcdata.StatComparison{
		{Row: ufcdata.StatRow{Label: "Strikes Per Min"}, A: "5.8", B: "3.9", Winner: ufcdata.EdgeA},
		{Row: ufcdata.StatRow{Label: "Striking Accuracy"}, A: "54%", B: "49%", Winner: ufcdata.EdgeEven},
	}
	out := render(t, ComparisonTable("A", "B", rows))
	if strings.Count(out, "stat-better") != 1 {
		t.Errorf("expected one highlighted cell: %s", out)
	}
}

func TestLayoutChrome(t *testing.T) {
	out := render(t, ErrorPage(ErrorPageData{
		Page:    Page{Title: "Fight Not Found", Path: "/fight/x", Backdrop: "blood"},
		Heading: "Fight Not Found",
		Message: "No fight with that id.",
	}))
	if !strings.Contains(out, `<a class="nav-link" href="/">`) || strings.Contains(out, "nav-link active") {
		t.Errorf("no nav link should be active on a fight page: %s", out)
	}
	if !strings.Contains(out, `src="/backdrop/blood.svg"`) {
		t.Error("backdrop layer missing")
	}
	if !strings.Contains(out, "<title>Fight Not Found | UFC Predict</title>") {
		t.Error("title missing")
	}
}

func TestHomeRendersStats(t *testing.T) {
	d := HomePageData{
		Page:    Page{Title: "Home", Path: "/"},
		Overall: ufcdata.OverallAccuracy{Accuracy: 87.3, TotalPredictions: 1248, RecentStreak: 12},
		Featured: &FeaturedEvent{
			Name: "UFC 330", Date: sampleFight.Date, Venue: sampleFight.Venue,
			Main: sampleFight, Starts: "2026-11-14T19:00:00Z", Countdown: Countdown{Days: 2},
		},
	}
	out := render(t, Home(d))
	for _, want := range []string{
		"87.3%", "1,248", "Saturday, November 14, 2026",
		`data-countdown="2026-11-14T19:00:00Z"`, "2d 0h 0m",
		"No Additional Upcoming Fights", "chart-loading",
		`<a class="nav-link active" href="/">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("home missing %q", want)
		}
	}
}
