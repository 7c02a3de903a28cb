package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ufc-predict/catalog"
	"ufc-predict/ufcdata"
)

type server struct {
	data      *ufcdata.Client
	cat       *catalog.Catalog
	log       *slog.Logger
	backdrop  string
	now       func() time.Time
	snapshots *snapshotCache

	mu      sync.Mutex
	indexed [2]time.Time // fetch times of the documents loaded into cat
}

func newServer(ctx context.Context, data *ufcdata.Client, cfg Config, logger *slog.Logger) (*server, error) {
	cat, err := catalog.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &server{
		data:      data,
		cat:       cat,
		log:       logger,
		backdrop:  cfg.Backdrop,
		now:       time.Now,
		snapshots: newSnapshotCache(time.Now),
	}, nil
}

func (s *server) Close() error { return s.cat.Close() }

// index makes sure the catalog holds the current documents and returns the
// upcoming card. The catalog is rebuilt whenever either document has been
// refetched since the last load.
func (s *server) index(ctx context.Context) (*ufcdata.Upcoming, error) {
	up, err := s.data.UpcomingFights(ctx)
	if err != nil {
		return nil, err
	}
	fighters, err := s.data.Fighters(ctx)
	if err != nil {
		return nil, err
	}
	stamp := [2]time.Time{s.data.FetchedAt(ufcdata.UpcomingDoc), s.data.FetchedAt(ufcdata.FightersDoc)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stamp[0].Equal(s.indexed[0]) && stamp[1].Equal(s.indexed[1]) {
		return up, nil
	}
	if err := s.cat.Load(ctx, up.Fights, fighters); err != nil {
		return nil, fmt.Errorf("index documents: %w", err)
	}
	s.indexed = stamp
	s.log.Debug("catalog rebuilt", "fights", len(up.Fights), "fighters", len(fighters))
	return up, nil
}
