package ufcdata

import (
	"testing"
	"time"
)

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, ConfidenceHigh},
		{80, ConfidenceHigh},
		{79.9, ConfidenceMedium},
		{65, ConfidenceMedium},
		{64.9, ConfidenceLow},
		{0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ConfidenceLevel(tt.in); got != tt.want {
			t.Errorf("ConfidenceLevel(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPredictionOpponent(t *testing.T) {
	p := Prediction{WinProbability: 58}
	if p.Opponent() != 42 {
		t.Errorf("Opponent = %v, want 42", p.Opponent())
	}
	if !p.Favored() {
		t.Error("58% should be favored")
	}
	if (Prediction{WinProbability: 49}).Favored() {
		t.Error("49% should be the underdog")
	}
}

func TestRecordString(t *testing.T) {
	f := Fighter{Record: Record{Wins: 24, Losses: 3}}
	if got := f.RecordString(); got != "24-3" {
		t.Errorf("got %q, want 24-3", got)
	}
	f.Record.Draws = 1
	if got := f.RecordString(); got != "24-3-1" {
		t.Errorf("got %q, want 24-3-1", got)
	}
	if f.TotalFights() != 28 {
		t.Errorf("TotalFights = %d, want 28", f.TotalFights())
	}
}

func TestRates(t *testing.T) {
	f := Fighter{Record: Record{Wins: 20, Losses: 5}, Stats: CareerStats{KOs: 9, WinsByFinish: 15}}
	if f.WinRate() != 80 || f.KORate() != 45 || f.FinishRate() != 75 {
		t.Errorf("rates = %d %d %d", f.WinRate(), f.KORate(), f.FinishRate())
	}
	var zero Fighter
	if zero.WinRate() != 0 || zero.KORate() != 0 || zero.FinishRate() != 0 {
		t.Error("rates of an empty record must be zero")
	}
}

func TestWeeklyBuckets(t *testing.T) {
	now := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	fights := []Fight{
		{Date: "2026-10-20"},          // past, counted as this week
		{Date: "2026-11-08T00:00:00"}, // exactly 7 days
		{Date: "2026-11-10"},
		{Date: "2026-11-15T00:00:00Z"}, // exactly 14 days
		{Date: "2026-12-12"},
		{Date: "soon"},
	}
	got := WeeklyBuckets(fights, now)
	want := WeekBuckets{ThisWeek: 2, NextWeek: 2, Later: 1}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveFactors(t *testing.T) {
	f := Fight{
		Fighters: Corners{A: FighterSummary{Name: "Vega"}, B: FighterSummary{Name: "Orlov"}},
		Factors: []Factor{
			{Name: "Striking", Winner: "fighterA", Score: 8.5},
			{Name: "Grappling", Winner: "fighterB", Score: 9.2},
		},
	}
	got := ResolveFactors(f)
	if len(got) != 2 {
		t.Fatalf("got %d factors", len(got))
	}
	if got[0].Winner != "Vega" || got[0].Percentage != 85 {
		t.Errorf("factor 0 = %+v", got[0])
	}
	if got[1].Winner != "Orlov" || got[1].Score != 9.2 {
		t.Errorf("factor 1 = %+v", got[1])
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Fight{Event: "UFC 330", Title: "x"}).DisplayName(); got != "UFC 330" {
		t.Errorf("got %q", got)
	}
	if got := (Fight{Title: "Title Fight"}).DisplayName(); got != "Title Fight" {
		t.Errorf("got %q", got)
	}
	if got := (Fight{}).DisplayName(); got != "UFC Event" {
		t.Errorf("got %q", got)
	}
}

func TestBestDivision(t *testing.T) {
	s := AccuracyStats{ByDivision: []DivisionAccuracy{
		{Division: "Heavyweight", Accuracy: 84},
		{Division: "Welterweight", Accuracy: 91},
		{Division: "Lightweight", Accuracy: 91},
		{Division: "Flyweight", Accuracy: 70},
	}}
	best, ok := s.BestDivision()
	if !ok || best.Division != "Lightweight" {
		t.Errorf("best = %+v, %v", best, ok)
	}
	if _, ok := (AccuracyStats{}).BestDivision(); ok {
		t.Error("empty stats reported a best division")
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Jon Jones":         "jon-jones",
		"Light Heavyweight": "light-heavyweight",
		"  Two   Spaces ":   "two-spaces",
		"Welterweight":      "welterweight",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompareStats(t *testing.T) {
	a := Fighter{Stats: CareerStats{
		StrikingAccuracy: "54%", SignificantStrikesPerMin: 5.8, AvgFightTime: "11:42", WinsByFinish: 16,
	}}
	b := Fighter{Stats: CareerStats{
		StrikingAccuracy: "49%", SignificantStrikesPerMin: 3.9, AvgFightTime: "13:05", WinsByFinish: 16,
	}}
	rows := append([]StatRow{{Key: "unknown", Label: "Unknown"}}, FightStats...)
	got := CompareStats(a, b, rows)
	if len(got) != len(FightStats) {
		t.Fatalf("rows = %d, want %d", len(got), len(FightStats))
	}

	byKey := map[string]StatComparison{}
	for _, c := range got {
		byKey[c.Row.Key] = c
	}
	if c := byKey["strikingAccuracy"]; c.Winner != EdgeEven || c.A != "54%" {
		t.Errorf("text stat = %+v, want even with raw text", c)
	}
	if c := byKey["significantStrikesPerMin"]; c.Winner != EdgeA || c.A != "5.8" || c.B != "3.9" {
		t.Errorf("strikes per min = %+v", c)
	}
	if c := byKey["winsByFinish"]; c.Winner != EdgeEven || c.A != "16.0" {
		t.Errorf("equal numbers = %+v", c)
	}

	b.Stats.KOs = 3
	lower := CompareStats(a, b, []StatRow{{Key: "kos", Format: FormatNumber, HigherIsBetter: false}})
	if lower[0].Winner != EdgeA {
		t.Errorf("lower is better: winner = %v, want EdgeA", lower[0].Winner)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2026-11-14", "2026-11-14T19:00:00", "2026-11-14T19:00:00Z", "2026-11-14T19:00:00-05:00"} {
		if _, ok := ParseDate(s); !ok {
			t.Errorf("ParseDate(%q) failed", s)
		}
	}
	if _, ok := ParseDate("Nov 14"); ok {
		t.Error("ParseDate accepted an unknown layout")
	}
}
