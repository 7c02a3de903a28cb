package ufcdata

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

const fightersJSON = `{"fighters": [
	{"id": "marco-vega", "name": "Marco Vega", "record": {"wins": 24, "losses": 3, "draws": 0}, "division": "Welterweight", "ranking": 1},
	{"id": "dmitri-orlov", "name": "Dmitri Orlov", "record": {"wins": 27, "losses": 1, "draws": 0}, "division": "Welterweight"}
]}`

const upcomingJSON = `{
	"upcomingFights": [
		{"id": "ufc-330", "event": "UFC 330", "date": "2026-11-14T19:00:00", "mainEvent": true,
		 "prediction": {"winProbability": 58, "confidence": 78, "method": "KO/TKO", "round": 3, "aiInsight": "Power."},
		 "fighters": {"fighterA": {"id": "marco-vega", "name": "Marco Vega", "rank": 1, "record": "24-3"},
		              "fighterB": {"id": "dmitri-orlov", "name": "Dmitri Orlov", "rank": 2, "record": "27-1"}},
		 "weightClass": "Welterweight", "factors": [{"name": "Striking", "winner": "fighterA", "score": 8.5}]}
	],
	"events": [
		{"key": "ufc-330", "name": "UFC 330", "date": "2026-11-14", "venue": "MSG", "location": "New York"},
		{"id": "fn-1", "title": "Fight Night"},
		"UFC 331",
		42
	]
}`

const accuracyJSON = `{"overall": {"accuracy": 87.3, "totalPredictions": 1248}, "byDivision": [{"division": "Heavyweight", "accuracy": 84.2}]}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/fighters.json":        {Data: []byte(fightersJSON)},
		"data/upcoming-fights.json": {Data: []byte(upcomingJSON)},
		"data/accuracy-stats.json":  {Data: []byte(accuracyJSON)},
	}
}

func TestClientDecodesDocuments(t *testing.T) {
	c := New(&FSSource{FS: testFS(), Dir: "data"})
	ctx := context.Background()

	fighters, err := c.Fighters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(fighters) != 2 || fighters[0].Ranking != 1 || fighters[1].Record.Wins != 27 {
		t.Errorf("fighters = %+v", fighters)
	}

	up, err := c.UpcomingFights(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(up.Fights) != 1 {
		t.Fatalf("fights = %d, want 1", len(up.Fights))
	}
	f := up.Fights[0]
	if f.Fighters.B.Name != "Dmitri Orlov" || f.Prediction.AIInsight != "Power." || len(f.Factors) != 1 {
		t.Errorf("fight = %+v", f)
	}

	stats, err := c.AccuracyStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Overall.TotalPredictions != 1248 || len(stats.ByDivision) != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEventsParsedLeniently(t *testing.T) {
	c := New(&FSSource{FS: testFS(), Dir: "data"})
	up, err := c.UpcomingFights(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Event{
		{Key: "ufc-330", Name: "UFC 330", Date: "2026-11-14", Venue: "MSG", Location: "New York"},
		{Key: "fn-1", Name: "Fight Night"},
		{Name: "UFC 331"},
	}
	if len(up.Events) != len(want) {
		t.Fatalf("events = %+v, want %d entries", up.Events, len(want))
	}
	for i := range want {
		if up.Events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, up.Events[i], want[i])
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	c := New(&FSSource{FS: testFS(), Dir: "data"})
	ctx := context.Background()

	if f, err := c.Fighter(ctx, "marco-vega"); err != nil || f.Name != "Marco Vega" {
		t.Errorf("Fighter(marco-vega) = %v, %v", f, err)
	}

	_, err := c.Fighter(ctx, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Fighter(nobody) error = %v, want ErrNotFound", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "fighter" || e.Context["id"] != "nobody" {
		t.Errorf("error detail = %#v", err)
	}

	if _, err := c.Fight(ctx, "ufc-999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fight(ufc-999) error = %v, want ErrNotFound", err)
	}
	if _, _, err := c.Raw(ctx, "secrets.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Raw(secrets.json) error = %v, want ErrNotFound", err)
	}
}

func TestMissingDocumentUnavailable(t *testing.T) {
	c := New(&FSSource{FS: fstest.MapFS{}})
	_, err := c.Fighters(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a missing document must not look like a missing record")
	}
}

func TestMalformedDocumentUnavailable(t *testing.T) {
	fsys := fstest.MapFS{"fighters.json": {Data: []byte(`{"fighters": [`)}}
	c := New(&FSSource{FS: fsys})
	if _, err := c.Fighters(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}

	fsys = fstest.MapFS{"fighters.json": {Data: []byte(`{"fighters": {"id": 1}}`)}}
	c = New(&FSSource{FS: fsys})
	if _, err := c.Fighters(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("wrong shape error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPSource(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/data/fighters.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(fightersJSON))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(&HTTPSource{BaseURL: srv.URL + "/data/", Client: srv.Client()})
	ctx := context.Background()

	fighters, err := c.Fighters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(fighters) != 2 {
		t.Errorf("fighters = %d, want 2", len(fighters))
	}

	_, err = c.AccuracyStats(ctx)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *Error", err)
	}
	if !strings.HasSuffix(e.Context["endpoint"].(string), "/data/accuracy-stats.json") {
		t.Errorf("endpoint = %v", e.Context["endpoint"])
	}
	if !strings.Contains(e.Context["status"].(string), "500") {
		t.Errorf("status = %v", e.Context["status"])
	}
}

func TestHTTPSourceRejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/big/") {
			w.Write(bytes.Repeat([]byte(" "), maxDocumentSize+1))
			return
		}
		w.Write(bytes.Repeat([]byte(" "), maxDocumentSize-len(fightersJSON)))
		w.Write([]byte(fightersJSON))
	}))
	defer srv.Close()

	_, err := (&HTTPSource{BaseURL: srv.URL + "/big", Client: srv.Client()}).Fetch(context.Background(), FightersDoc)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want a size error", err)
	}
	var e *Error
	if !errors.As(err, &e) || !strings.HasSuffix(e.Context["endpoint"].(string), "/"+FightersDoc) {
		t.Errorf("endpoint missing from %v", err)
	}

	if b, err := (&HTTPSource{BaseURL: srv.URL + "/ok", Client: srv.Client()}).Fetch(context.Background(), FightersDoc); err != nil || len(b) != maxDocumentSize {
		t.Errorf("document at the limit: %d bytes, err %v", len(b), err)
	}
}

type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (s *countingSource) Fetch(_ context.Context, name string) ([]byte, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, newError("fetch", ErrUnavailable, "document", name)
	}
	return []byte(fightersJSON), nil
}

func TestCacheHonorsTTL(t *testing.T) {
	src := &countingSource{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c := New(src, WithTTL(10*time.Minute), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Fighters(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("fetches within TTL = %d, want 1", n)
	}
	if got := c.FetchedAt(FightersDoc); !got.Equal(now) {
		t.Errorf("FetchedAt = %v, want %v", got, now)
	}

	now = now.Add(11 * time.Minute)
	if _, err := c.Fighters(ctx); err != nil {
		t.Fatal(err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Errorf("fetches after expiry = %d, want 2", n)
	}

	c.Invalidate()
	if !c.FetchedAt(FightersDoc).IsZero() {
		t.Error("FetchedAt not reset by Invalidate")
	}
	if _, err := c.Fighters(ctx); err != nil {
		t.Fatal(err)
	}
	if n := src.calls.Load(); n != 3 {
		t.Errorf("fetches after Invalidate = %d, want 3", n)
	}
}

func TestZeroTTLDisablesCache(t *testing.T) {
	src := &countingSource{}
	c := New(src, WithTTL(0))
	for i := 0; i < 3; i++ {
		c.Fighters(context.Background())
	}
	if n := src.calls.Load(); n != 3 {
		t.Errorf("fetches = %d, want 3", n)
	}
}

func TestStaleCopyServedOnRefreshFailure(t *testing.T) {
	src := &countingSource{}
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c := New(src, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if _, err := c.Fighters(ctx); err != nil {
		t.Fatal(err)
	}
	src.fail.Store(true)
	now = now.Add(time.Hour)

	fighters, err := c.Fighters(ctx)
	if err != nil {
		t.Fatalf("stale read failed: %v", err)
	}
	if len(fighters) != 2 {
		t.Errorf("stale fighters = %d, want 2", len(fighters))
	}

	c.Invalidate()
	if _, err := c.Fighters(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error without cached copy = %v, want ErrUnavailable", err)
	}
}

func TestErrorString(t *testing.T) {
	err := newError("fetch", ErrUnavailable, "status", "502 Bad Gateway", "endpoint", "http://x/a.json")
	want := "ufcdata: fetch (endpoint=http://x/a.json, status=502 Bad Gateway): data unavailable"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
