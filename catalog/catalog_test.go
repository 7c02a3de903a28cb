package catalog

import (
	"context"
	"testing"

	"ufc-predict/ufcdata"
)

func fight(id, event, class string, main bool, a, b string) ufcdata.Fight {
	return ufcdata.Fight{
		ID:          id,
		Event:       event,
		WeightClass: class,
		MainEvent:   main,
		Fighters: ufcdata.Corners{
			A: ufcdata.FighterSummary{Name: a},
			B: ufcdata.FighterSummary{Name: b},
		},
	}
}

var testFights = []ufcdata.Fight{
	fight("f1", "UFC 330: Vega vs Orlov", "Welterweight", true, "Marco Vega", "Dmitri Orlov"),
	fight("f2", "UFC 330: Vega vs Orlov", "Lightweight", false, "Sam Okafor", "Yusuf Demir"),
	fight("f3", "UFC 330: Vega vs Orlov", "Heavyweight", false, "Tyrell Banks", "Jonas Lindqvist"),
	fight("f4", "UFC Fight Night: Santos vs Mori", "Bantamweight", true, "Rafael Santos", "Kenji Mori"),
	fight("f5", "UFC Fight Night: Santos vs Mori", "Women's Strawweight", false, "Aleksandra Nowak", "Luana Costa"),
	fight("f6", "UFC 331: Mbeki vs Hale", "Light Heavyweight", true, "Andre Mbeki", "Viktor Hale"),
}

var testFighters = []ufcdata.Fighter{
	{ID: "vega", Name: "Marco Vega", Division: "Welterweight", Ranking: 2},
	{ID: "orlov", Name: "Dmitri Orlov", Division: "Welterweight", Ranking: 1},
	{ID: "rookie", Name: "New Guy", Division: "Welterweight"},
	{ID: "banks", Name: "Tyrell Banks", Division: "Heavyweight", Ranking: 5},
}

func openTest(t *testing.T) *Catalog {
	t.Helper()
	ctx := context.Background()
	c, err := Open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	if err := c.Load(ctx, testFights, testFighters); err != nil {
		t.Fatal(err)
	}
	return c
}

func ids(fights []ufcdata.Fight) []string {
	out := make([]string, len(fights))
	for i, f := range fights {
		out[i] = f.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchFights(t *testing.T) {
	c := openTest(t)
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query", Query{}, []string{"f1", "f2", "f3", "f4", "f5", "f6"}},
		{"all", Query{Filter: FilterAll}, []string{"f1", "f2", "f3", "f4", "f5", "f6"}},
		{"main events", Query{Filter: FilterMainEvent}, []string{"f1", "f4", "f6"}},
		{"heavyweight includes light heavyweight", Query{Filter: FilterHeavyweight}, []string{"f3", "f6"}},
		{"welterweight", Query{Filter: FilterWelterweight}, []string{"f1"}},
		{"bantamweight", Query{Filter: FilterBantamweight}, []string{"f4"}},
		{"division slug", Query{Filter: "light-heavyweight"}, []string{"f6"}},
		{"unknown slug", Query{Filter: "featherweight"}, nil},
		{"text on fighter", Query{Text: "okafor"}, []string{"f2"}},
		{"text on fighter and event", Query{Text: "orlov"}, []string{"f1", "f2", "f3"}},
		{"text ignores case", Query{Text: "KENJI"}, []string{"f4"}},
		{"text on event", Query{Text: "fight night"}, []string{"f4", "f5"}},
		{"text on weight class", Query{Text: "strawweight"}, []string{"f5"}},
		{"text with filter", Query{Filter: FilterMainEvent, Text: "ufc 330"}, []string{"f1"}},
		{"text is trimmed", Query{Text: "  hale "}, []string{"f6"}},
		{"like wildcards are literal", Query{Text: "%"}, nil},
		{"no match", Query{Text: "nobody"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.SearchFights(context.Background(), tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if !equal(ids(got), tt.want) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestSearchKeepsFullRecord(t *testing.T) {
	c := openTest(t)
	got, err := c.SearchFights(context.Background(), Query{Text: "marco"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Fighters.B.Name != "Dmitri Orlov" || !got[0].MainEvent {
		t.Errorf("round-tripped fight = %+v", got)
	}
}

func TestFilterCounts(t *testing.T) {
	c := openTest(t)
	counts, err := c.FilterCounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{
		FilterAll:          6,
		FilterMainEvent:    3,
		FilterHeavyweight:  2,
		FilterWelterweight: 1,
		FilterBantamweight: 1,
	}
	if len(counts) != len(Tabs) {
		t.Fatalf("got %d tabs, want %d", len(counts), len(Tabs))
	}
	for i, tc := range counts {
		if tc.ID != Tabs[i].ID {
			t.Errorf("tab %d = %s, want %s", i, tc.ID, Tabs[i].ID)
		}
		if tc.Count != want[tc.ID] {
			t.Errorf("%s count = %d, want %d", tc.ID, tc.Count, want[tc.ID])
		}
	}
}

func TestEventAndOtherFights(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()

	event, err := c.EventFights(ctx, "UFC 330")
	if err != nil {
		t.Fatal(err)
	}
	if !equal(ids(event), []string{"f1", "f2", "f3"}) {
		t.Errorf("event fights = %v", ids(event))
	}

	other, err := c.OtherFights(ctx, "UFC 330", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(ids(other), []string{"f4", "f5"}) {
		t.Errorf("other fights = %v", ids(other))
	}

	all, err := c.OtherFights(ctx, "UFC 330", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("unlimited other fights = %d, want 3", len(all))
	}
}

func TestWeightClassesInDocumentOrder(t *testing.T) {
	c := openTest(t)
	got, err := c.WeightClasses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Welterweight", "Lightweight", "Heavyweight", "Bantamweight", "Women's Strawweight", "Light Heavyweight"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFightersByDivision(t *testing.T) {
	c := openTest(t)
	got, err := c.FightersByDivision(context.Background(), "Welterweight")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range got {
		names = append(names, f.ID)
	}
	if !equal(names, []string{"orlov", "vega", "rookie"}) {
		t.Errorf("got %v", names)
	}
}

func TestLoadReplaces(t *testing.T) {
	c := openTest(t)
	ctx := context.Background()
	if err := c.Load(ctx, testFights[:2], nil); err != nil {
		t.Fatal(err)
	}
	got, err := c.SearchFights(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if !equal(ids(got), []string{"f1", "f2"}) {
		t.Errorf("after reload = %v", ids(got))
	}
	fighters, err := c.FightersByDivision(ctx, "Welterweight")
	if err != nil {
		t.Fatal(err)
	}
	if len(fighters) != 0 {
		t.Errorf("fighters after reload = %d, want 0", len(fighters))
	}
}
