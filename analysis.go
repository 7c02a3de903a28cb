package main

import (
	"context"
	"encoding/json"
	"time"

	"ufc-predict/catalog"
	"ufc-predict/charts"
	"ufc-predict/templates"
	"ufc-predict/ufcdata"
)

const (
	otherFightsLimit = 3
	featuredCardSize = 3 // fights shown under the main event
	similarLimit     = 3
)

// chart encodes c, or returns nil so the page shows the loading
// placeholder.
func (s *server) chart(name string, c charts.Chart) json.RawMessage {
	b, err := charts.Marshal(c)
	if err != nil {
		s.log.Warn("chart dropped", "chart", name, "err", err)
		return nil
	}
	return b
}

// featured builds the featured event from the first listed event, falling
// back to the event of the first fight. Fights outside it are returned as
// others.
func (s *server) featured(ctx context.Context, up *ufcdata.Upcoming) (*templates.FeaturedEvent, []ufcdata.Fight, error) {
	var ev ufcdata.Event
	if len(up.Events) > 0 {
		ev = up.Events[0]
	}
	if ev.Name == "" && len(up.Fights) > 0 {
		ev.Name = up.Fights[0].Event
	}
	if ev.Name == "" {
		return nil, nil, nil
	}

	card, err := s.cat.EventFights(ctx, ev.Name)
	if err != nil {
		return nil, nil, err
	}
	others, err := s.cat.OtherFights(ctx, ev.Name, otherFightsLimit)
	if err != nil {
		return nil, nil, err
	}
	if len(card) == 0 {
		return nil, others, nil
	}

	head := 0
	for i, f := range card {
		if f.MainEvent {
			head = i
			break
		}
	}
	rest := make([]ufcdata.Fight, 0, len(card)-1)
	rest = append(rest, card[:head]...)
	rest = append(rest, card[head+1:]...)
	if len(rest) > featuredCardSize {
		rest = rest[:featuredCardSize]
	}

	fe := &templates.FeaturedEvent{
		Name:  ev.Name,
		Date:  ev.Date,
		Venue: ev.Venue,
		Main:  card[head],
		Card:  rest,
	}
	if fe.Date == "" {
		fe.Date = fe.Main.Date
	}
	if fe.Venue == "" {
		fe.Venue = fe.Main.Venue
	}
	if t, ok := fe.Main.When(); ok {
		fe.Starts = t.Format(time.RFC3339)
		fe.Countdown = templates.CountdownTo(t, s.now())
	}
	return fe, others, nil
}

// fightTabs marks the active tab. An empty filter selects "all".
func fightTabs(counts []catalog.TabCount, filter string) []templates.FilterTab {
	if filter == "" {
		filter = catalog.FilterAll
	}
	tabs := make([]templates.FilterTab, len(counts))
	for i, c := range counts {
		tabs[i] = templates.FilterTab{ID: c.ID, Label: c.Label, Count: c.Count, Active: c.ID == filter}
	}
	return tabs
}

func weightClasses(names []string, filter string) []templates.WeightClass {
	out := make([]templates.WeightClass, len(names))
	for i, n := range names {
		slug := ufcdata.Slug(n)
		out[i] = templates.WeightClass{Name: n, Slug: slug, Active: slug == filter}
	}
	return out
}

// similar returns up to similarLimit other fighters from f's division.
func (s *server) similar(ctx context.Context, f ufcdata.Fighter) ([]ufcdata.Fighter, error) {
	if f.Division == "" {
		return nil, nil
	}
	peers, err := s.cat.FightersByDivision(ctx, f.Division)
	if err != nil {
		return nil, err
	}
	out := make([]ufcdata.Fighter, 0, similarLimit)
	for _, p := range peers {
		if p.ID == f.ID {
			continue
		}
		out = append(out, p)
		if len(out) == similarLimit {
			break
		}
	}
	return out, nil
}
