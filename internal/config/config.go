// Package config loads runtime settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
)

// Environment variables read by Load.
const (
	EnvDBPath     = "PAIRING_DB"
	EnvConfigPath = "PAIRING_CONFIG"
)

// #region config-types

// Config is the top-level runtime configuration.
type Config struct {
	DBPath   string          `yaml:"db_path" validate:"required"`
	Ranking  RankingConfig   `yaml:"ranking"`
	Learning learning.Config `yaml:"learning"`
	Log      LogConfig       `yaml:"log"`
}

// RankingConfig controls bulk ranking.
type RankingConfig struct {
	Weights              ranking.Weights `yaml:"weights"`
	Parallelism          int             `yaml:"parallelism" validate:"min=1,max=256"`
	MaxTimelineGapMonths float64         `yaml:"max_timeline_gap_months" validate:"gt=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// #endregion config-types

// #region defaults

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DBPath: "pairing.db",
		Ranking: RankingConfig{
			Weights:              ranking.DefaultWeights(),
			Parallelism:          8,
			MaxTimelineGapMonths: ranking.DefaultFilterConfig().MaxTimelineGapMonths,
		},
		Learning: learning.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// #endregion defaults

// #region load

// Load reads path over the defaults. An empty path falls back to
// $PAIRING_CONFIG, and no file at all means defaults. $PAIRING_DB overrides
// db_path last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion load

// #region validate

var configValidate = validator.New()

// Validate checks field constraints and that ranking weights are non-negative.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	w := c.Ranking.Weights
	for _, v := range []float64{w.Intent, w.Lifestyle, w.Attachment, w.ConflictRegulation, w.Personality, w.Novelty} {
		if v < 0 {
			return errors.New("invalid config: ranking weights must be non-negative")
		}
	}
	return nil
}

// #endregion validate

// #region helpers

// FilterConfig returns the hard-filter settings.
func (c Config) FilterConfig() ranking.FilterConfig {
	return ranking.FilterConfig{MaxTimelineGapMonths: c.Ranking.MaxTimelineGapMonths}
}

// NewLogger builds a slog logger writing to stderr.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// #endregion helpers
