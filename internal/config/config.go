package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabase      = "checklist.db"
	defaultRolloverTime  = "00:00"
	defaultCheckInterval = time.Hour
	defaultCategory      = "uncategorized"
)

// Config keeps runtime settings for the checklist.
type Config struct {
	DatabasePath    string
	Location        *time.Location
	RolloverTime    string
	CheckInterval   time.Duration
	CatalogFile     string
	DefaultCategory string
}

// Load reads configuration from environment variables with sane defaults.
// Variables from a .env file in the working directory are applied first
// without overriding the real environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		DatabasePath:    get("CHECKLIST_DATABASE"),
		Location:        time.Local,
		RolloverTime:    get("CHECKLIST_ROLLOVER_TIME"),
		CheckInterval:   defaultCheckInterval,
		CatalogFile:     get("CHECKLIST_CATALOG_FILE"),
		DefaultCategory: get("CHECKLIST_DEFAULT_CATEGORY"),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabase
	}
	if cfg.RolloverTime == "" {
		cfg.RolloverTime = defaultRolloverTime
	}
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = defaultCategory
	}

	if tz := get("CHECKLIST_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("CHECKLIST_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if raw := get("CHECKLIST_CHECK_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval < 0 {
			return cfg, fmt.Errorf("CHECKLIST_CHECK_INTERVAL: invalid duration %q", raw)
		}
		if interval > 0 && interval < time.Second {
			return cfg, fmt.Errorf("CHECKLIST_CHECK_INTERVAL: %s is shorter than a second", interval)
		}
		cfg.CheckInterval = interval
	}

	if _, err := time.Parse("15:04", cfg.RolloverTime); err != nil {
		return cfg, fmt.Errorf("CHECKLIST_ROLLOVER_TIME: expected HH:MM, got %q", cfg.RolloverTime)
	}

	return cfg, nil
}
