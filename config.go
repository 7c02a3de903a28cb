package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"ufc-predict/particle"
	"ufc-predict/ufcdata"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr      string
	DataURL   string // empty serves the embedded sample documents
	DataTTL   time.Duration
	LogLevel  slog.Level
	LogFormat string // "text" or "json"
	Backdrop  string
}

// loadConfig reads the configuration from getenv. tty selects the default
// log format.
func loadConfig(getenv func(string) string, tty bool) (Config, error) {
	cfg := Config{
		Addr:      ":8080",
		DataURL:   strings.TrimSpace(getenv("DATA_URL")),
		DataTTL:   ufcdata.DefaultTTL,
		LogLevel:  slog.LevelInfo,
		LogFormat: "json",
		Backdrop:  "blood",
	}
	if tty {
		cfg.LogFormat = "text"
	}

	if v := getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DATA_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%w: DATA_TTL %q", ErrInvalidConfig, v)
		}
		cfg.DataTTL = d
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalidConfig, v)
		}
	}
	if v := strings.ToLower(getenv("LOG_FORMAT")); v != "" {
		if v != "text" && v != "json" {
			return Config{}, fmt.Errorf("%w: LOG_FORMAT %q", ErrInvalidConfig, v)
		}
		cfg.LogFormat = v
	}
	if v := getenv("BACKDROP"); v != "" {
		if _, err := particle.Lookup(v); err != nil {
			return Config{}, fmt.Errorf("%w: BACKDROP: %w", ErrInvalidConfig, err)
		}
		cfg.Backdrop = v
	}
	return cfg, nil
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
