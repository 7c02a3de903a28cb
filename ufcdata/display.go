package ufcdata

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Confidence levels shown next to a prediction.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 80:
		return ConfidenceHigh
	case confidence >= 65:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// Opponent is the win probability of the other corner.
func (p Prediction) Opponent() float64 { return 100 - p.WinProbability }

func (p Prediction) Favored() bool { return p.WinProbability >= 50 }

// RecordString formats the record as wins-losses, with draws appended only
// when there are any.
func (f Fighter) RecordString() string {
	if f.Record.Draws > 0 {
		return fmt.Sprintf("%d-%d-%d", f.Record.Wins, f.Record.Losses, f.Record.Draws)
	}
	return fmt.Sprintf("%d-%d", f.Record.Wins, f.Record.Losses)
}

func (f Fighter) TotalFights() int {
	return f.Record.Wins + f.Record.Losses + f.Record.Draws
}

// WinRate, KORate and FinishRate are whole percentages; zero when the
// denominator is zero.
func (f Fighter) WinRate() int { return percent(f.Record.Wins, f.Record.Wins+f.Record.Losses) }

func (f Fighter) KORate() int { return percent(f.Stats.KOs, f.Record.Wins) }

func (f Fighter) FinishRate() int { return percent(f.Stats.WinsByFinish, f.Record.Wins) }

func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// DisplayName prefers the event name, then the title.
func (f Fight) DisplayName() string {
	switch {
	case f.Event != "":
		return f.Event
	case f.Title != "":
		return f.Title
	}
	return "UFC Event"
}

func (f Fight) Matchup() string {
	return f.Fighters.A.Name + " vs " + f.Fighters.B.Name
}

// When parses Date; ok is false for an unparseable date.
func (f Fight) When() (time.Time, bool) { return ParseDate(f.Date) }

// WeekBuckets counts fights by how far away they are.
type WeekBuckets struct {
	ThisWeek int
	NextWeek int
	Later    int
}

// WeeklyBuckets sorts fights into this week (up to 7 days from now,
// including past dates), next week (7 to 14 days) and later. Fights with
// unparseable dates are not counted.
func WeeklyBuckets(fights []Fight, now time.Time) WeekBuckets {
	oneWeek := now.Add(7 * 24 * time.Hour)
	twoWeeks := now.Add(14 * 24 * time.Hour)

	var b WeekBuckets
	for _, f := range fights {
		t, ok := f.When()
		if !ok {
			continue
		}
		switch {
		case !t.After(oneWeek):
			b.ThisWeek++
		case !t.After(twoWeeks):
			b.NextWeek++
		default:
			b.Later++
		}
	}
	return b
}

type ResolvedFactor struct {
	Name       string
	Winner     string
	Score      float64
	Percentage float64
}

// ResolveFactors names the corner each factor favors and scales its score
// to a percentage.
func ResolveFactors(f Fight) []ResolvedFactor {
	out := make([]ResolvedFactor, 0, len(f.Factors))
	for _, fc := range f.Factors {
		winner := f.Fighters.B.Name
		if fc.Winner == "fighterA" {
			winner = f.Fighters.A.Name
		}
		out = append(out, ResolvedFactor{
			Name:       fc.Name,
			Winner:     winner,
			Score:      fc.Score,
			Percentage: fc.Score / 10 * 100,
		})
	}
	return out
}

// BestDivision returns the division with the highest accuracy; on ties the
// later entry wins. ok is false when there are no divisions.
func (s AccuracyStats) BestDivision() (DivisionAccuracy, bool) {
	if len(s.ByDivision) == 0 {
		return DivisionAccuracy{}, false
	}
	best := s.ByDivision[0]
	for _, d := range s.ByDivision[1:] {
		if !(best.Accuracy > d.Accuracy) {
			best = d
		}
	}
	return best, true
}

// Slug turns a display name into an id, e.g. "Jon Jones" -> "jon-jones".
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// StatFormat controls how a comparison value is printed.
type StatFormat int

const (
	FormatText StatFormat = iota
	FormatNumber
	FormatPercentage
	FormatTime
)

type StatRow struct {
	Key            string
	Label          string
	Format         StatFormat
	HigherIsBetter bool
}

// FightStats are the rows of the head-to-head table on the fight page.
var FightStats = []StatRow{
	{"strikingAccuracy", "Striking Accuracy", FormatPercentage, true},
	{"takedownAccuracy", "Takedown Accuracy", FormatPercentage, true},
	{"takedownDefense", "Takedown Defense", FormatPercentage, true},
	{"significantStrikesPerMin", "Strikes Per Min", FormatNumber, true},
	{"avgFightTime", "Avg Fight Time", FormatTime, false},
	{"winsByFinish", "Wins by Finish", FormatNumber, true},
}

// Edge names which corner a stat favors.
type Edge int

const (
	EdgeEven Edge = iota
	EdgeA
	EdgeB
)

type StatComparison struct {
	Row    StatRow
	A, B   string
	Winner Edge
}

// statValue is a career stat as either a number or free text.
type statValue struct {
	num    float64
	text   string
	isText bool
}

func (f Fighter) stat(key string) (statValue, bool) {
	s := f.Stats
	switch key {
	case "kos":
		return statValue{num: float64(s.KOs)}, true
	case "submissions":
		return statValue{num: float64(s.Submissions)}, true
	case "decisions":
		return statValue{num: float64(s.Decisions)}, true
	case "winsByFinish":
		return statValue{num: float64(s.WinsByFinish)}, true
	case "significantStrikesPerMin":
		return statValue{num: s.SignificantStrikesPerMin}, true
	case "avgFightTime":
		return statValue{text: s.AvgFightTime, isText: true}, true
	case "strikingAccuracy":
		return statValue{text: s.StrikingAccuracy, isText: true}, true
	case "takedownAccuracy":
		return statValue{text: s.TakedownAccuracy, isText: true}, true
	case "takedownDefense":
		return statValue{text: s.TakedownDefense, isText: true}, true
	}
	return statValue{}, false
}

func (v statValue) format(f StatFormat) string {
	if v.isText {
		return v.text
	}
	switch f {
	case FormatPercentage:
		return fmt.Sprintf("%g%%", v.num)
	case FormatNumber:
		return fmt.Sprintf("%.1f", v.num)
	}
	return fmt.Sprint(v.num)
}

// CompareStats builds the head-to-head rows. Text values never pick a
// winner; unknown keys are skipped.
func CompareStats(a, b Fighter, rows []StatRow) []StatComparison {
	out := make([]StatComparison, 0, len(rows))
	for _, row := range rows {
		va, okA := a.stat(row.Key)
		vb, okB := b.stat(row.Key)
		if !okA || !okB {
			continue
		}
		cmp := StatComparison{Row: row, A: va.format(row.Format), B: vb.format(row.Format)}
		if !va.isText && !vb.isText && va.num != vb.num {
			aWins := va.num > vb.num
			if !row.HigherIsBetter {
				aWins = va.num < vb.num
			}
			cmp.Winner = EdgeB
			if aWins {
				cmp.Winner = EdgeA
			}
		}
		out = append(out, cmp)
	}
	return out
}
