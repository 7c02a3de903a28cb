// Package ufcdata fetches and decodes the pre-baked prediction documents:
// fighter profiles, the upcoming fight card and the accuracy statistics.
package ufcdata

import "time"

// Document names, relative to the data source root.
const (
	FightersDoc = "fighters.json"
	UpcomingDoc = "upcoming-fights.json"
	AccuracyDoc = "accuracy-stats.json"
)

// Documents lists every document a source is expected to serve.
var Documents = []string{FightersDoc, UpcomingDoc, AccuracyDoc}

type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Style ratings are on a 0..10 scale.
type Style struct {
	Striking  float64 `json:"striking"`
	Grappling float64 `json:"grappling"`
	Power     float64 `json:"power"`
	Speed     float64 `json:"speed"`
	Cardio    float64 `json:"cardio"`
	Defense   float64 `json:"defense"`
	Clinch    float64 `json:"clinche"`
	Ground    float64 `json:"ground"`
}

type CareerStats struct {
	KOs                      int     `json:"kos"`
	Submissions              int     `json:"submissions"`
	Decisions                int     `json:"decisions"`
	AvgFightTime             string  `json:"avgFightTime"`
	StrikingAccuracy         string  `json:"strikingAccuracy"`
	TakedownAccuracy         string  `json:"takedownAccuracy"`
	TakedownDefense          string  `json:"takedownDefense"`
	SignificantStrikesPerMin float64 `json:"significantStrikesPerMin"`
	WinsByFinish             int     `json:"winsByFinish"`
}

type PastFight struct {
	Opponent string `json:"opponent"`
	Result   string `json:"result"` // win, loss or draw
	Method   string `json:"method"`
	Round    int    `json:"round"`
	Time     string `json:"time"`
	Date     string `json:"date"`
}

// Prediction is the model output for one fight. WinProbability refers to
// fighter A (or, on a fighter profile, to that fighter).
type Prediction struct {
	WinProbability float64 `json:"winProbability"`
	Confidence     float64 `json:"confidence"`
	Method         string  `json:"method"`
	Round          int     `json:"round"`
	AIInsight      string  `json:"aiInsight,omitempty"`
}

type NextFight struct {
	Opponent   string     `json:"opponent"`
	Date       string     `json:"date"`
	Venue      string     `json:"venue"`
	Prediction Prediction `json:"prediction"`
}

type Fighter struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Nickname           string      `json:"nickname"`
	Record             Record      `json:"record"`
	Division           string      `json:"division"`
	Ranking            int         `json:"ranking,omitempty"`
	Height             string      `json:"height"`
	Weight             string      `json:"weight"`
	Reach              string      `json:"reach"`
	Stance             string      `json:"stance"`
	Age                int         `json:"age"`
	Photo              string      `json:"photo"`
	Style              Style       `json:"style"`
	Stats              CareerStats `json:"stats"`
	RecentForm         []PastFight `json:"recentForm"`
	NextFight          *NextFight  `json:"nextFight,omitempty"`
	PredictionAccuracy float64     `json:"predictionAccuracy"`
}

// FighterSummary is the short form embedded in a fight. Rank 0 means
// unranked.
type FighterSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Rank     int    `json:"rank"`
	Record   string `json:"record"`
	Photo    string `json:"photo,omitempty"`
}

type Corners struct {
	A FighterSummary `json:"fighterA"`
	B FighterSummary `json:"fighterB"`
}

type Odds struct {
	A float64 `json:"fighterA"`
	B float64 `json:"fighterB"`
}

// Factor winners are "fighterA" or "fighterB"; scores are 0..10.
type Factor struct {
	Name   string  `json:"name"`
	Winner string  `json:"winner"`
	Score  float64 `json:"score"`
}

type Fight struct {
	ID          string     `json:"id"`
	Event       string     `json:"event"`
	Title       string     `json:"title,omitempty"`
	Date        string     `json:"date"`
	Venue       string     `json:"venue"`
	MainEvent   bool       `json:"mainEvent"`
	Prediction  Prediction `json:"prediction"`
	Fighters    Corners    `json:"fighters"`
	WeightClass string     `json:"weightClass"`
	Status      string     `json:"status"`
	Odds        Odds       `json:"odds"`
	Factors     []Factor   `json:"factors"`
}

// Event is a loosely-typed event summary from the upcoming document.
type Event struct {
	Key      string
	Name     string
	Date     string
	Venue    string
	Location string
}

// Upcoming is the decoded upcoming-fights document.
type Upcoming struct {
	Fights []Fight
	Events []Event
}

type OverallAccuracy struct {
	Accuracy           float64 `json:"accuracy"`
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
	RecentStreak       int     `json:"recentStreak"`
	ConfidenceAverage  float64 `json:"confidenceAverage"`
	LastUpdated        string  `json:"lastUpdated"`
}

type DivisionAccuracy struct {
	Division           string  `json:"division"`
	Accuracy           float64 `json:"accuracy"`
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
}

type MethodAccuracy struct {
	Method             string  `json:"method"`
	Accuracy           float64 `json:"accuracy"`
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
}

// MonthlyAccuracy months are "YYYY-MM".
type MonthlyAccuracy struct {
	Month              string  `json:"month"`
	Accuracy           float64 `json:"accuracy"`
	TotalPredictions   int     `json:"totalPredictions"`
	CorrectPredictions int     `json:"correctPredictions"`
}

type PredictedOutcome struct {
	Winner     string  `json:"winner"`
	Method     string  `json:"method"`
	Round      int     `json:"round"`
	Confidence float64 `json:"confidence"`
}

type ActualOutcome struct {
	Winner string `json:"winner"`
	Method string `json:"method"`
	Round  int    `json:"round"`
}

type Result struct {
	ID        string           `json:"id"`
	Fight     string           `json:"fight"`
	Date      string           `json:"date"`
	Predicted PredictedOutcome `json:"predicted"`
	Actual    ActualOutcome    `json:"actual"`
	Accuracy  float64          `json:"accuracy"`
}

// Correct reports whether the prediction was scored fully correct.
func (r Result) Correct() bool { return r.Accuracy == 100 }

type Calibration struct {
	ConfidenceRange string  `json:"confidenceRange"`
	Predictions     int     `json:"predictions"`
	Accuracy        float64 `json:"accuracy"`
}

type AccuracyStats struct {
	Overall               OverallAccuracy    `json:"overall"`
	ByDivision            []DivisionAccuracy `json:"byDivision"`
	ByMethod              []MethodAccuracy   `json:"byMethod"`
	MonthlyAccuracy       []MonthlyAccuracy  `json:"monthlyAccuracy"`
	RecentResults         []Result           `json:"recentResults"`
	ConfidenceCalibration []Calibration      `json:"confidenceCalibration"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts the date forms used by the documents. Dates without a
// zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
