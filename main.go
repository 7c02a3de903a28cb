package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"ufc-predict/assets"
	"ufc-predict/catalog"
	"ufc-predict/charts"
	"ufc-predict/particle"
	"ufc-predict/templates"
	"ufc-predict/ufcdata"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}
	fd := os.Stderr.Fd()
	cfg, err := loadConfig(os.Getenv, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newSource(cfg Config) ufcdata.Source {
	if cfg.DataURL == "" {
		return &ufcdata.FSSource{FS: assets.Data}
	}
	return &ufcdata.HTTPSource{BaseURL: cfg.DataURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	data := ufcdata.New(newSource(cfg), ufcdata.WithTTL(cfg.DataTTL), ufcdata.WithLogger(logger))
	srv, err := newServer(ctx, data, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("UFC Predict is running", "addr", cfg.Addr, "data", orDefault(cfg.DataURL, "embedded"), "backdrop", cfg.Backdrop)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return hs.Shutdown(shutdownCtx)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.homeHandler)
	mux.HandleFunc("GET /fights", s.fightsHandler)
	mux.HandleFunc("GET /fight/{id}", s.fightHandler)
	mux.HandleFunc("GET /fighter/{id}", s.fighterHandler)
	mux.HandleFunc("GET /accuracy", s.accuracyHandler)
	mux.HandleFunc("GET /how-it-works", s.howItWorksHandler)
	mux.HandleFunc("GET /data/{file}", s.dataHandler)
	mux.HandleFunc("GET /backdrop/{file}", s.backdropHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(assets.Static)))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r, "Page Not Found", "There is nothing at this address.")
	})
	return withMiddleware(mux, s.log)
}

func (s *server) page(r *http.Request, title string) templates.Page {
	return templates.Page{Title: title, Path: r.URL.Path, Backdrop: s.backdrop}
}

func (s *server) render(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	templ.Handler(c, templ.WithStatus(status), templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		s.log.Error("render failed", "path", r.URL.Path, "err", err, "request_id", requestID(r.Context()))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

func (s *server) notFound(w http.ResponseWriter, r *http.Request, heading, message string) {
	d := templates.ErrorPageData{Page: s.page(r, heading), Heading: heading, Message: message}
	s.render(w, r, templates.ErrorPage(d), http.StatusNotFound)
}

// fail renders the error page for err. Source failures are reported as a bad
// gateway.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ufcdata.ErrNotFound) {
		s.notFound(w, r, "Not Found", "We couldn't find what you were looking for.")
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "err", err, "request_id", requestID(r.Context()))

	status := http.StatusInternalServerError
	d := templates.ErrorPageData{Heading: "Something Went Wrong", Message: "The page could not be built. Please try again."}
	if errors.Is(err, ufcdata.ErrUnavailable) {
		status = http.StatusBadGateway
		d.Heading = "Data Unavailable"
		d.Message = "Prediction data could not be loaded right now. Please try again shortly."
	}
	d.Page = s.page(r, d.Heading)
	s.render(w, r, templates.ErrorPage(d), status)
}

func (s *server) homeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	up, err := s.index(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := templates.HomePageData{Page: s.page(r, "AI Fight Predictions")}
	d.Featured, d.Others, err = s.featured(ctx, up)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// The page still works without the tracker; its chart shows the
	// placeholder.
	if stats, err := s.data.AccuracyStats(ctx); err != nil {
		s.log.Warn("accuracy unavailable", "err", err)
	} else {
		d.Overall = stats.Overall
		d.Trend = s.chart("accuracy-trend", charts.AccuracyTrend(*stats))
	}
	s.render(w, r, templates.Home(d), http.StatusOK)
}

func (s *server) fightsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("filter")))
	text := strings.TrimSpace(r.URL.Query().Get("q"))

	up, err := s.index(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	found, err := s.cat.SearchFights(ctx, catalog.Query{Filter: filter, Text: text})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	counts, err := s.cat.FilterCounts(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	classes, err := s.cat.WeightClasses(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := templates.FightsPageData{
		Page:          s.page(r, "Fight Analytics"),
		Weeks:         ufcdata.WeeklyBuckets(up.Fights, s.now()),
		Filter:        filter,
		Query:         text,
		Tabs:          fightTabs(counts, filter),
		Fights:        found,
		Total:         len(up.Fights),
		WeightClasses: weightClasses(classes, filter),
	}
	s.render(w, r, templates.Fights(d), http.StatusOK)
}

// profile looks up a fighter that may be missing from the profiles
// document.
func (s *server) profile(ctx context.Context, id string) (*ufcdata.Fighter, error) {
	f, err := s.data.Fighter(ctx, id)
	if errors.Is(err, ufcdata.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

func (s *server) fightHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := s.data.Fight(ctx, r.PathValue("id"))
	if errors.Is(err, ufcdata.ErrNotFound) {
		s.notFound(w, r, "Fight Not Found", "The fight you're looking for doesn't exist.")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := templates.FightPageData{
		Page:       s.page(r, f.Matchup()),
		Fight:      *f,
		Factors:    ufcdata.ResolveFactors(*f),
		RoundChart: s.chart("round-probability", charts.WinProbabilityByRound(*f, charts.SeedFor(f.ID))),
	}
	if d.A, err = s.profile(ctx, f.Fighters.A.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	if d.B, err = s.profile(ctx, f.Fighters.B.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	if d.A != nil && d.B != nil {
		d.Stats = ufcdata.CompareStats(*d.A, *d.B, ufcdata.FightStats)
		d.Comparison = s.chart("style-comparison", charts.Comparison(*d.A, *d.B))
	}
	s.render(w, r, templates.FightDetail(d), http.StatusOK)
}

func (s *server) fighterHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := s.data.Fighter(ctx, r.PathValue("id"))
	if errors.Is(err, ufcdata.ErrNotFound) {
		s.notFound(w, r, "Fighter Not Found", "The fighter you're looking for doesn't exist.")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.index(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	similar, err := s.similar(ctx, *f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d := templates.FighterPageData{
		Page:       s.page(r, f.Name),
		Fighter:    *f,
		StyleChart: s.chart("fighting-style", charts.StyleRadar(*f)),
		Similar:    similar,
	}
	s.render(w, r, templates.FighterProfile(d), http.StatusOK)
}

func (s *server) accuracyHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.data.AccuracyStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d := templates.AccuracyPageData{
		Page:        s.page(r, "AI Accuracy Tracker"),
		Stats:       *stats,
		TrendChart:  s.chart("accuracy-trend", charts.AccuracyTrend(*stats)),
		DivChart:    s.chart("division-accuracy", charts.DivisionAccuracy(*stats)),
		MethodChart: s.chart("method-breakdown", charts.MethodBreakdown(*stats)),
	}
	if best, ok := stats.BestDivision(); ok {
		d.Best = &best
	}
	s.render(w, r, templates.Accuracy(d), http.StatusOK)
}

func (s *server) howItWorksHandler(w http.ResponseWriter, r *http.Request) {
	d := templates.HowItWorksPageData{Page: s.page(r, "How It Works")}
	if stats, err := s.data.AccuracyStats(r.Context()); err != nil {
		s.log.Warn("accuracy unavailable", "err", err)
	} else {
		d.Overall = stats.Overall
	}
	s.render(w, r, templates.HowItWorks(d), http.StatusOK)
}

// dataHandler serves the raw documents the pages are built from.
func (s *server) dataHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	body, fetched, err := s.data.Raw(r.Context(), name)
	if errors.Is(err, ufcdata.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Warn("document unavailable", "document", name, "err", err)
		http.Error(w, "data unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeContent(w, r, name, fetched, bytes.NewReader(body))
}

// backdropHandler serves /backdrop/{variant}.svg.
func (s *server) backdropHandler(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	v, err := particle.Lookup(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	k, err := snapshotParams(name, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, created, err := s.snapshots.get(v, k)
	if err != nil {
		s.log.Error("backdrop render failed", "variant", name, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name+".svg", created, bytes.NewReader(body))
}
