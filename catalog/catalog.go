// Package catalog indexes the fetched fight and fighter documents in an
// in-memory sqlite database for filtering and search. It holds no state of
// its own; every Load replaces the previous contents.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"ufc-predict/ufcdata"

	_ "github.com/glebarez/go-sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fights (
    id TEXT PRIMARY KEY,
    pos INTEGER NOT NULL,
    event TEXT,
    main_event INTEGER NOT NULL DEFAULT 0,
    weight_class TEXT,
    class_slug TEXT,
    event_lc TEXT,
    class_lc TEXT,
    a_lc TEXT,
    b_lc TEXT,
    body TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fighters (
    id TEXT PRIMARY KEY,
    pos INTEGER NOT NULL,
    division TEXT,
    ranking INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL
);
`

type Catalog struct {
	db *sql.DB
}

// Open creates an empty in-memory catalog.
func Open(ctx context.Context) (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

// Load replaces all rows in one transaction.
func (c *Catalog) Load(ctx context.Context, fights []ufcdata.Fight, fighters []ufcdata.Fighter) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM fights`); err != nil {
		return fmt.Errorf("catalog: clear fights: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM fighters`); err != nil {
		return fmt.Errorf("catalog: clear fighters: %w", err)
	}

	for i, f := range fights {
		body, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("catalog: encode fight %s: %w", f.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO fights (id, pos, event, main_event, weight_class, class_slug, event_lc, class_lc, a_lc, b_lc, body)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, i, f.Event, f.MainEvent, f.WeightClass, ufcdata.Slug(f.WeightClass),
			strings.ToLower(f.Event), strings.ToLower(f.WeightClass),
			strings.ToLower(f.Fighters.A.Name), strings.ToLower(f.Fighters.B.Name), string(body))
		if err != nil {
			return fmt.Errorf("catalog: insert fight %s: %w", f.ID, err)
		}
	}

	for i, f := range fighters {
		body, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("catalog: encode fighter %s: %w", f.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO fighters (id, pos, division, ranking, body) VALUES (?, ?, ?, ?, ?)`,
			f.ID, i, f.Division, f.Ranking, string(body))
		if err != nil {
			return fmt.Errorf("catalog: insert fighter %s: %w", f.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

func scanFights(rows *sql.Rows) ([]ufcdata.Fight, error) {
	defer rows.Close()
	var out []ufcdata.Fight
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var f ufcdata.Fight
		if err := json.Unmarshal([]byte(body), &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFighters(rows *sql.Rows) ([]ufcdata.Fighter, error) {
	defer rows.Close()
	var out []ufcdata.Fighter
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var f ufcdata.Fighter
		if err := json.Unmarshal([]byte(body), &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// EventFights returns the fights whose event name contains event.
func (c *Catalog) EventFights(ctx context.Context, event string) ([]ufcdata.Fight, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT body FROM fights WHERE instr(event, ?) > 0 ORDER BY pos`, event)
	if err != nil {
		return nil, fmt.Errorf("catalog: event fights: %w", err)
	}
	return scanFights(rows)
}

// OtherFights returns up to limit fights outside event. A limit <= 0
// returns all of them.
func (c *Catalog) OtherFights(ctx context.Context, event string, limit int) ([]ufcdata.Fight, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT body FROM fights WHERE instr(event, ?) = 0 ORDER BY pos LIMIT ?`, event, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: other fights: %w", err)
	}
	return scanFights(rows)
}

// WeightClasses lists the distinct weight classes in first-seen order.
func (c *Catalog) WeightClasses(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT weight_class FROM fights GROUP BY weight_class ORDER BY min(pos)`)
	if err != nil {
		return nil, fmt.Errorf("catalog: weight classes: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FightersByDivision returns the division's fighters, ranked first by
// ranking and unranked fighters last.
func (c *Catalog) FightersByDivision(ctx context.Context, division string) ([]ufcdata.Fighter, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT body FROM fighters WHERE division = ?
		ORDER BY CASE WHEN ranking > 0 THEN 0 ELSE 1 END, ranking, pos`, division)
	if err != nil {
		return nil, fmt.Errorf("catalog: fighters by division: %w", err)
	}
	return scanFighters(rows)
}
