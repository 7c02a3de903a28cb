package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"ufc-predict/assets"
	"ufc-predict/particle"
	"ufc-predict/ufcdata"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testServer(t *testing.T, src ufcdata.Source) *server {
	t.Helper()
	cfg, err := loadConfig(func(string) string { return "" }, false)
	if err != nil {
		t.Fatal(err)
	}
	s, err := newServer(context.Background(), ufcdata.New(src), cfg, discard())
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2026, 11, 10, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	cfg, err := loadConfig(getenv, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.DataTTL != ufcdata.DefaultTTL || cfg.LogFormat != "text" || cfg.Backdrop != "blood" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg, _ := loadConfig(getenv, false); cfg.LogFormat != "json" {
		t.Errorf("non-tty format = %q, want json", cfg.LogFormat)
	}

	env = map[string]string{"ADDR": ":9000", "DATA_TTL": "30s", "LOG_LEVEL": "debug", "BACKDROP": "stream", "DATA_URL": " https://example.com/data "}
	cfg, err = loadConfig(getenv, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.DataTTL != 30*time.Second || cfg.LogLevel != slog.LevelDebug || cfg.Backdrop != "stream" || cfg.DataURL != "https://example.com/data" {
		t.Errorf("overrides = %+v", cfg)
	}

	for k, v := range map[string]string{
		"DATA_TTL":   "soon",
		"LOG_LEVEL":  "loud",
		"LOG_FORMAT": "xml",
		"BACKDROP":   "confetti",
	} {
		env = map[string]string{k: v}
		if _, err := loadConfig(getenv, false); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s=%s: err = %v, want ErrInvalidConfig", k, v, err)
		}
	}
}

func TestRoutes(t *testing.T) {
	h := testServer(t, &ufcdata.FSSource{FS: assets.Data}).routes()

	tests := []struct {
		target string
		status int
		want   []string
	}{
		{"/", 200, []string{"UFC 330: Vega vs Orlov", "Marco Vega vs Dmitri Orlov", "Sam Okafor", "Andre Mbeki", "4d 7h 0m", "accuracy-trend-options"}},
		{"/fights", 200, []string{"Showing 6 of 6 fights", `<a class="tab active" href="/fights?filter=all">`}},
		{"/fights?filter=main-event", 200, []string{"Showing 3 of 6 fights"}},
		{"/fights?filter=light-heavyweight", 200, []string{"Showing 1 of 6 fights", "Andre Mbeki"}},
		{"/fights?q=ORLOV", 200, []string{"Showing 3 of 6 fights", `value="ORLOV"`, "Sam Okafor"}},
		{"/fights?q=okafor", 200, []string{"Showing 1 of 6 fights", "Sam Okafor"}},
		{"/fights?q=fight+night", 200, []string{"Showing 2 of 6 fights", "Aleksandra Nowak"}},
		{"/fights?q=nobody", 200, []string{"Showing 0 of 6 fights"}},
		{"/fight/ufc-330", 200, []string{"Marco Vega vs Dmitri Orlov", "round-probability-options", "style-comparison-options", "stat-better"}},
		{"/fight/ufc-331", 200, []string{"Andre Mbeki vs Viktor Hale", "profile-link disabled"}},
		{"/fight/nope", 404, []string{"Fight Not Found"}},
		{"/fighter/marco-vega", 200, []string{"Marco Vega", "fighting-style-options", `href="/fighter/dmitri-orlov"`}},
		{"/fighter/nope", 404, []string{"Fighter Not Found"}},
		{"/accuracy", 200, []string{"division-accuracy-options", "method-breakdown-options"}},
		{"/how-it-works", 200, []string{"Our Prediction Process"}},
		{"/data/fighters.json", 200, []string{`"fighters"`}},
		{"/data/secrets.json", 404, nil},
		{"/backdrop/ember.svg?w=200&h=100&frames=5", 200, []string{"<svg", `width="200"`}},
		{"/backdrop/confetti.svg", 404, nil},
		{"/backdrop/ember.png", 404, nil},
		{"/backdrop/ember.svg?w=wide", 400, nil},
		{"/healthz", 200, []string{"ok"}},
		{"/static/app.js", 200, []string{"echarts.init"}},
		{"/nowhere", 404, []string{"Page Not Found"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := rec.Body.String()
			for _, w := range tt.want {
				if !strings.Contains(body, w) {
					t.Errorf("body missing %q", w)
				}
			}
		})
	}
}

func TestContentTypes(t *testing.T) {
	h := testServer(t, &ufcdata.FSSource{FS: assets.Data}).routes()
	for target, want := range map[string]string{
		"/data/upcoming-fights.json":   "application/json",
		"/backdrop/blood.svg?frames=2": "image/svg+xml",
		"/accuracy":                    "text/html; charset=utf-8",
	} {
		if got := get(t, h, target).Header().Get("Content-Type"); got != want {
			t.Errorf("%s: Content-Type = %q, want %q", target, got, want)
		}
	}
}

func TestRequestID(t *testing.T) {
	h := testServer(t, &ufcdata.FSSource{FS: assets.Data}).routes()

	if id := get(t, h, "/healthz").Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("generated id = %q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Request-ID"); id != "abc-123" {
		t.Errorf("incoming id not kept: %q", id)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := withMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), discard())
	if rec := get(t, h, "/"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, string) ([]byte, error) {
	return nil, &ufcdata.Error{Op: "fetch", Err: ufcdata.ErrUnavailable}
}

func TestUnavailableSource(t *testing.T) {
	h := testServer(t, failingSource{}).routes()

	for _, target := range []string{"/", "/fights", "/fight/ufc-330", "/accuracy"} {
		rec := get(t, h, target)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("%s: status = %d, want 502", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Data Unavailable") {
			t.Errorf("%s: missing error page", target)
		}
	}
	if rec := get(t, h, "/data/fighters.json"); rec.Code != http.StatusBadGateway {
		t.Errorf("raw document status = %d, want 502", rec.Code)
	}
	// The explainer renders without numbers.
	if rec := get(t, h, "/how-it-works"); rec.Code != http.StatusOK {
		t.Errorf("how-it-works status = %d", rec.Code)
	}
}

// mutableSource serves a copy of the sample documents that tests can edit.
type mutableSource struct {
	mu sync.Mutex
	fs fstest.MapFS
}

func newMutableSource(t *testing.T) *mutableSource {
	t.Helper()
	m := fstest.MapFS{}
	for _, name := range ufcdata.Documents {
		b, err := fs.ReadFile(assets.Data, name)
		if err != nil {
			t.Fatal(err)
		}
		m[name] = &fstest.MapFile{Data: b}
	}
	return &mutableSource{fs: m}
}

func (m *mutableSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&ufcdata.FSSource{FS: m.fs}).Fetch(ctx, name)
}

func (m *mutableSource) set(name, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fs[name] = &fstest.MapFile{Data: []byte(body)}
}

func TestCatalogFollowsRefetch(t *testing.T) {
	src := newMutableSource(t)
	s := testServer(t, src)
	h := s.routes()

	if body := get(t, h, "/fights").Body.String(); !strings.Contains(body, "Showing 6 of 6 fights") {
		t.Fatal("unexpected initial card")
	}

	src.set(ufcdata.UpcomingDoc, `{"upcomingFights": [{
		"id": "late-add", "event": "UFC 332", "date": "2026-12-19T20:00:00",
		"weightClass": "Flyweight",
		"fighters": {"fighterA": {"id": "a", "name": "Late Replacement"}, "fighterB": {"id": "b", "name": "Short Notice"}}
	}]}`)

	// Still cached.
	if body := get(t, h, "/fights").Body.String(); !strings.Contains(body, "Showing 6 of 6 fights") {
		t.Error("catalog changed before the document expired")
	}

	s.data.Invalidate()
	body := get(t, h, "/fights?filter=flyweight").Body.String()
	if !strings.Contains(body, "Showing 1 of 1 fights") || !strings.Contains(body, "Late Replacement") {
		t.Errorf("catalog not rebuilt after refetch: %s", body)
	}
}

func TestSnapshotCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newSnapshotCache(func() time.Time { return now })
	v, err := particle.Lookup("haze")
	if err != nil {
		t.Fatal(err)
	}
	k := snapshotKey{variant: "haze", w: 120, h: 80, frames: 3, seed: 7}

	a, _, err := c.get(v, k)
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := c.get(v, k)
	if string(a) != string(b) || c.renders != 1 {
		t.Errorf("renders = %d, want a single render for a repeated key", c.renders)
	}

	now = now.Add(snapshotTTL)
	c.get(v, k)
	if c.renders != 2 {
		t.Errorf("expired entry not re-rendered")
	}

	for i := range maxSnapshotEntries + 5 {
		c.get(v, snapshotKey{variant: "haze", w: 10, h: 10, frames: 1, seed: uint64(i)})
	}
	if len(c.entries) > maxSnapshotEntries {
		t.Errorf("entries = %d, want at most %d", len(c.entries), maxSnapshotEntries)
	}
}

func TestSnapshotCacheSharesConcurrentRenders(t *testing.T) {
	c := newSnapshotCache(time.Now)
	v, err := particle.Lookup("ember")
	if err != nil {
		t.Fatal(err)
	}
	k := snapshotKey{variant: "ember", w: 400, h: 300, frames: 20, seed: 3}

	var wg sync.WaitGroup
	bodies := make([][]byte, 8)
	for i := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bodies[i], _, _ = c.get(v, k)
		}()
	}
	wg.Wait()

	c.mu.Lock()
	renders := c.renders
	c.mu.Unlock()
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	for i, b := range bodies {
		if string(b) != string(bodies[0]) || len(b) == 0 {
			t.Errorf("body %d differs", i)
		}
	}
}

func TestSnapshotParams(t *testing.T) {
	k, err := snapshotParams("ember", map[string][]string{"w": {"99999"}, "frames": {"7"}, "seed": {"42"}})
	if err != nil {
		t.Fatal(err)
	}
	want := snapshotKey{variant: "ember", w: maxSnapshotSide, h: defaultSnapshotH, frames: 7, seed: 42}
	if k != want {
		t.Errorf("got %+v, want %+v", k, want)
	}
	for _, bad := range []map[string][]string{
		{"w": {"0"}},
		{"h": {"-3"}},
		{"frames": {"many"}},
		{"seed": {"-1"}},
	} {
		if _, err := snapshotParams("ember", bad); err == nil {
			t.Errorf("%v accepted", bad)
		}
	}
}
