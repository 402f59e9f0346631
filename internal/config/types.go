// Package config provides shared configuration types for slq.
// This package is decoupled from CLI concerns; the layered loader lives in
// internal/cli/config.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/slq/pkg/format"
)

// Config holds all slq settings.
type Config struct {
	Output   string       `koanf:"output"`    // auto, text, json, yaml
	LogLevel string       `koanf:"log_level"` // debug, info, warn, error
	Verbose  bool         `koanf:"verbose"`
	Color    string       `koanf:"color"` // auto, always, never
	Format   FormatConfig `koanf:"format"`
	Check    CheckConfig  `koanf:"check"`
}

// FormatConfig holds settings for `slq fmt`.
type FormatConfig struct {
	// Join forces a join keyword spelling: join, JOIN or j. Empty keeps
	// the spelling found in the input.
	Join string `koanf:"join"`

	// Comments re-emits line comments in formatted output.
	Comments bool `koanf:"comments"`
}

// Options converts the settings to formatter options.
func (f FormatConfig) Options() format.Options {
	return format.Options{JoinSpelling: f.Join}
}

// CheckConfig holds settings for `slq check`.
type CheckConfig struct {
	// Workers bounds concurrent parses. Zero means one per CPU.
	Workers int `koanf:"workers"`

	// Extensions selects files when a directory is checked.
	Extensions []string `koanf:"extensions"`

	// Debounce delays re-checks in watch mode so bursts of writes
	// trigger one pass.
	Debounce time.Duration `koanf:"debounce"`
}

// Matches reports whether path has one of the configured extensions.
func (c CheckConfig) Matches(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("invalid output %q: must be one of %s", c.Output, strings.Join(OutputModes, ", "))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("invalid color %q: must be one of %s", c.Color, strings.Join(ColorModes, ", "))
	}
	if err := c.Format.Options().Validate(); err != nil {
		return fmt.Errorf("format.join: %w", err)
	}
	if c.Check.Workers < 0 {
		return fmt.Errorf("check.workers must not be negative, got %d", c.Check.Workers)
	}
	if c.Check.Debounce < 0 {
		return fmt.Errorf("check.debounce must not be negative, got %s", c.Check.Debounce)
	}
	return nil
}

// SlogLevel returns the effective log level. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", s)
}
