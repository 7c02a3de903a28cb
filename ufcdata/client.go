package ufcdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTTL is how long a fetched document is served from memory.
const DefaultTTL = 10 * time.Minute

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

type Option func(*Client)

// WithTTL sets the cache lifetime. Zero disables caching.
func WithTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

type document struct {
	mu      sync.Mutex
	body    []byte
	fetched time.Time
}

// Client fetches the prediction documents from a Source and caches each
// document for the configured TTL. It is safe for concurrent use.
type Client struct {
	src  Source
	ttl  time.Duration
	now  func() time.Time
	log  Logger
	docs map[string]*document
}

func New(src Source, opts ...Option) *Client {
	c := &Client{
		src:  src,
		ttl:  DefaultTTL,
		now:  time.Now,
		log:  noopLogger{},
		docs: make(map[string]*document, len(Documents)),
	}
	for _, name := range Documents {
		c.docs[name] = &document{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Raw returns the bytes of a known document and the time they were fetched.
// If a refresh fails while an older copy is cached, the older copy is
// returned.
func (c *Client) Raw(ctx context.Context, name string) ([]byte, time.Time, error) {
	d, ok := c.docs[name]
	if !ok {
		return nil, time.Time{}, newError("raw", ErrNotFound, "document", name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.body != nil && c.ttl > 0 && c.now().Sub(d.fetched) < c.ttl {
		return d.body, d.fetched, nil
	}

	body, err := c.src.Fetch(ctx, name)
	if err != nil {
		if d.body != nil {
			c.log.Warn("serving stale document", "document", name, "fetched", d.fetched, "err", err)
			return d.body, d.fetched, nil
		}
		return nil, time.Time{}, err
	}
	if !json.Valid(body) {
		err := newError("decode", fmt.Errorf("%w: invalid JSON", ErrUnavailable), "document", name)
		if d.body != nil {
			c.log.Warn("serving stale document", "document", name, "fetched", d.fetched, "err", err)
			return d.body, d.fetched, nil
		}
		return nil, time.Time{}, err
	}

	d.body, d.fetched = body, c.now()
	c.log.Debug("fetched document", "document", name, "bytes", len(body))
	return d.body, d.fetched, nil
}

// FetchedAt reports when a document was last fetched; zero if never.
func (c *Client) FetchedAt(name string) time.Time {
	d, ok := c.docs[name]
	if !ok {
		return time.Time{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetched
}

// Invalidate drops every cached document.
func (c *Client) Invalidate() {
	for _, d := range c.docs {
		d.mu.Lock()
		d.body, d.fetched = nil, time.Time{}
		d.mu.Unlock()
	}
}

func (c *Client) decode(ctx context.Context, name string, v any) ([]byte, error) {
	body, _, err := c.Raw(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, newError("decode", fmt.Errorf("%w: %w", ErrUnavailable, err), "document", name)
	}
	return body, nil
}

func (c *Client) Fighters(ctx context.Context) ([]Fighter, error) {
	var doc struct {
		Fighters []Fighter `json:"fighters"`
	}
	if _, err := c.decode(ctx, FightersDoc, &doc); err != nil {
		return nil, err
	}
	return doc.Fighters, nil
}

func (c *Client) Fighter(ctx context.Context, id string) (*Fighter, error) {
	fighters, err := c.Fighters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fighters {
		if fighters[i].ID == id {
			return &fighters[i], nil
		}
	}
	return nil, newError("fighter", ErrNotFound, "id", id)
}

func (c *Client) UpcomingFights(ctx context.Context) (*Upcoming, error) {
	var doc struct {
		Fights []Fight `json:"upcomingFights"`
	}
	body, err := c.decode(ctx, UpcomingDoc, &doc)
	if err != nil {
		return nil, err
	}
	return &Upcoming{Fights: doc.Fights, Events: parseEvents(body)}, nil
}

func (c *Client) Fight(ctx context.Context, id string) (*Fight, error) {
	up, err := c.UpcomingFights(ctx)
	if err != nil {
		return nil, err
	}
	for i := range up.Fights {
		if up.Fights[i].ID == id {
			return &up.Fights[i], nil
		}
	}
	return nil, newError("fight", ErrNotFound, "id", id)
}

func (c *Client) AccuracyStats(ctx context.Context) (*AccuracyStats, error) {
	var stats AccuracyStats
	if _, err := c.decode(ctx, AccuracyDoc, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// parseEvents reads the untyped events array. Entries may be objects with
// any subset of the known keys, or bare strings naming the event.
func parseEvents(body []byte) []Event {
	var events []Event
	gjson.GetBytes(body, "events").ForEach(func(_, v gjson.Result) bool {
		switch {
		case v.Type == gjson.String:
			events = append(events, Event{Name: v.String()})
		case v.IsObject():
			events = append(events, Event{
				Key:      firstString(v, "key", "id"),
				Name:     firstString(v, "name", "title"),
				Date:     v.Get("date").String(),
				Venue:    v.Get("venue").String(),
				Location: v.Get("location").String(),
			})
		}
		return true
	})
	return events
}

func firstString(v gjson.Result, keys ...string) string {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
