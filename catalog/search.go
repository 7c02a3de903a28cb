package catalog

import (
	"context"
	"fmt"
	"strings"

	"ufc-predict/ufcdata"
)

// Filter ids used by the fight analytics tabs.
const (
	FilterAll          = "all"
	FilterMainEvent    = "main-event"
	FilterHeavyweight  = "heavyweight"
	FilterWelterweight = "welterweight"
	FilterBantamweight = "bantamweight"
)

// Tab is one filter tab.
type Tab struct {
	ID    string
	Label string
}

var Tabs = []Tab{
	{FilterAll, "All Fights"},
	{FilterMainEvent, "Main Events"},
	{FilterHeavyweight, "Heavyweight"},
	{FilterWelterweight, "Welterweight"},
	{FilterBantamweight, "Bantamweight"},
}

type Query struct {
	// Filter is a tab id or a weight class slug such as "light-heavyweight".
	// Empty means all.
	Filter string
	// Text matches either fighter name, the event or the weight class,
	// ignoring case.
	Text string
}

// filterClause returns the WHERE fragment for a filter id.
func filterClause(filter string) (string, []any) {
	switch filter {
	case "", FilterAll:
		return "1 = 1", nil
	case FilterMainEvent:
		return "main_event = 1", nil
	case FilterHeavyweight, FilterWelterweight, FilterBantamweight:
		return "instr(class_lc, ?) > 0", []any{filter}
	}
	return "class_slug = ?", []any{filter}
}

// SearchFights returns matching fights in document order.
func (c *Catalog) SearchFights(ctx context.Context, q Query) ([]ufcdata.Fight, error) {
	where, args := filterClause(q.Filter)
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		where += ` AND (instr(a_lc, ?) > 0 OR instr(b_lc, ?) > 0 OR instr(event_lc, ?) > 0 OR instr(class_lc, ?) > 0)`
		args = append(args, text, text, text, text)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT body FROM fights WHERE `+where+` ORDER BY pos`, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanFights(rows)
}

type TabCount struct {
	Tab
	Count int
}

// FilterCounts counts the fights under each tab, ignoring any text search.
func (c *Catalog) FilterCounts(ctx context.Context) ([]TabCount, error) {
	out := make([]TabCount, 0, len(Tabs))
	for _, t := range Tabs {
		where, args := filterClause(t.ID)
		var n int
		if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM fights WHERE `+where, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("catalog: count %s: %w", t.ID, err)
		}
		out = append(out, TabCount{Tab: t, Count: n})
	}
	return out, nil
}
