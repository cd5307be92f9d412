package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the empdesk binary.
type Config struct {
	DBPath string

	// Timezone is the canonical calendar used to decide which day "today" is.
	Timezone *time.Location

	RecalcTimeoutMs   int
	RecalcConcurrency int

	// Nightly enables the midnight recalculation timer in long-lived processes.
	Nightly bool

	LogLevel  slog.Level
	LogFormat string // "text" or "json"
}

// DefaultConfig returns a Config with sensible defaults. The database path is
// left empty; Load resolves it against the user's home directory.
func DefaultConfig() Config {
	return Config{
		Timezone:          time.UTC,
		RecalcTimeoutMs:   10000,
		RecalcConcurrency: 4,
		Nightly:           false,
		LogLevel:          slog.LevelInfo,
		LogFormat:         "text",
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or invalid values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	cfg.DBPath = os.Getenv("EMPDESK_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".empdesk", "empdesk.db")
	}

	if v := os.Getenv("EMPDESK_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("loading timezone %q: %w", v, err)
		}
		cfg.Timezone = loc
	}
	if v := os.Getenv("EMPDESK_RECALC_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecalcTimeoutMs = n
		}
	}
	if v := os.Getenv("EMPDESK_RECALC_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecalcConcurrency = n
		}
	}
	if v := os.Getenv("EMPDESK_NIGHTLY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Nightly = b
		}
	}
	if v := os.Getenv("EMPDESK_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := strings.ToLower(os.Getenv("EMPDESK_LOG_FORMAT")); v == "text" || v == "json" {
		cfg.LogFormat = v
	}

	return cfg, nil
}

// RecalcTimeout returns the per-owner recalculation bound.
func (c Config) RecalcTimeout() time.Duration {
	return time.Duration(c.RecalcTimeoutMs) * time.Millisecond
}
