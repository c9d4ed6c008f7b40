package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PACELINE_CONFIG is set
//  3. env (prefix PACELINE_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PACELINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: PACELINE_ADDR, PACELINE_DATA_PATH, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PACELINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "paceline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the session cannot run with.
func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.DataPath == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case cfg.AutoBackupThreshold < 1:
		return fmt.Errorf("%w: auto_backup_threshold must be positive", ErrInvalidConfig)
	case cfg.JuniorAgeLimit < 0 || cfg.MastersAgeMin <= cfg.JuniorAgeLimit:
		return fmt.Errorf("%w: age category bounds out of order", ErrInvalidConfig)
	case cfg.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	for _, tod := range []string{cfg.WaveATime, cfg.WaveBTime, cfg.WaveCTime} {
		if len(tod) != 8 || tod[2] != ':' || tod[5] != ':' {
			return fmt.Errorf("%w: wave time %q must be HH:MM:SS", ErrInvalidConfig, tod)
		}
	}
	return nil
}
