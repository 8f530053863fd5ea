package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// History drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Settings is the decoded engine configuration.
type Settings struct {
	DegreeMode bool

	Integration struct {
		Subintervals      int
		SkipSingularities bool
	}

	History struct {
		Driver     string
		Path       string
		MaxEntries int
	}

	Observability struct {
		Metrics bool
		Tracing bool
	}

	LogLevel string
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	var s Settings
	s.Integration.Subintervals = 1000
	s.History.Driver = DriverMemory
	s.History.Path = "calcflow.db"
	s.LogLevel = "info"
	return s
}

// Decode reads Settings from cfg, falling back to Defaults() per key.
func Decode(cfg Config) Settings {
	s := Defaults()
	s.DegreeMode = cfg.Bool("degree_mode", s.DegreeMode)

	integration := cfg.Sub("integration")
	s.Integration.Subintervals = integration.Int("subintervals", s.Integration.Subintervals)
	s.Integration.SkipSingularities = integration.Bool("skip_singularities", s.Integration.SkipSingularities)

	history := cfg.Sub("history")
	s.History.Driver = strings.ToLower(history.String("driver", s.History.Driver))
	s.History.Path = history.String("path", s.History.Path)
	s.History.MaxEntries = history.Int("max_entries", s.History.MaxEntries)

	obs := cfg.Sub("observability")
	s.Observability.Metrics = obs.Bool("metrics", s.Observability.Metrics)
	s.Observability.Tracing = obs.Bool("tracing", s.Observability.Tracing)

	s.LogLevel = cfg.String("log_level", s.LogLevel)
	return s
}

// Keys returns every key Decode reads.
func Keys() []string {
	return []string{
		"degree_mode",
		"integration.subintervals",
		"integration.skip_singularities",
		"history.driver",
		"history.path",
		"history.max_entries",
		"observability.metrics",
		"observability.tracing",
		"log_level",
	}
}

// Validate reports every invalid setting, joined.
func (s Settings) Validate() error {
	var errs []error
	if s.Integration.Subintervals < 1 {
		errs = append(errs, fmt.Errorf("integration.subintervals must be positive, got %d", s.Integration.Subintervals))
	}
	switch s.History.Driver {
	case DriverMemory:
	case DriverSQLite:
		if s.History.Path == "" {
			errs = append(errs, errors.New("history.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown history.driver %q", s.History.Driver))
	}
	if s.History.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("history.max_entries must not be negative, got %d", s.History.MaxEntries))
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level for LogLevel, defaulting to info.
func (s Settings) Level() slog.Level {
	l, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
