package templates

import (
	"encoding/json"

	"ufc-predict/ufcdata"
)

// Page carries what the shared layout needs.
type Page struct {
	Title    string
	Path     string
	Backdrop string
}

type NavLink struct {
	Href  string
	Label string
}

var NavLinks = []NavLink{
	{"/", "Home"},
	{"/fights", "Fight Analytics"},
	{"/accuracy", "AI Accuracy"},
	{"/how-it-works", "How It Works"},
}

// Countdown is the time left until an event starts, floored to minutes.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
}

type FeaturedEvent struct {
	Name      string
	Date      string
	Venue     string
	Main      ufcdata.Fight
	Card      []ufcdata.Fight
	Starts    string // RFC 3339, read by the client-side countdown
	Countdown Countdown
}

type HomePageData struct {
	Page
	Overall  ufcdata.OverallAccuracy
	Featured *FeaturedEvent
	Others   []ufcdata.Fight
	Trend    json.RawMessage
}

type FilterTab struct {
	ID     string
	Label  string
	Count  int
	Active bool
}

type WeightClass struct {
	Name   string
	Slug   string
	Active bool
}

type FightsPageData struct {
	Page
	Weeks         ufcdata.WeekBuckets
	Filter        string
	Query         string
	Tabs          []FilterTab
	Fights        []ufcdata.Fight
	Total         int
	WeightClasses []WeightClass
}

type FightPageData struct {
	Page
	Fight      ufcdata.Fight
	A, B       *ufcdata.Fighter // nil when no profile exists
	Factors    []ufcdata.ResolvedFactor
	Stats      []ufcdata.StatComparison
	RoundChart json.RawMessage
	Comparison json.RawMessage
}

type FighterPageData struct {
	Page
	Fighter    ufcdata.Fighter
	StyleChart json.RawMessage
	Similar    []ufcdata.Fighter
}

type AccuracyPageData struct {
	Page
	Stats       ufcdata.AccuracyStats
	Best        *ufcdata.DivisionAccuracy
	TrendChart  json.RawMessage
	DivChart    json.RawMessage
	MethodChart json.RawMessage
}

type HowItWorksPageData struct {
	Page
	Overall ufcdata.OverallAccuracy
}

// ErrorPageData backs the not-found and data-unavailable pages.
type ErrorPageData struct {
	Page
	Heading string
	Message string
}
