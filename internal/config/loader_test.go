package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != ":9080" {
		t.Errorf("expected default addr :9080, got %q", cfg.Addr)
	}
	if cfg.EventName != "East Bay Dirt Classic" {
		t.Errorf("unexpected event name %q", cfg.EventName)
	}
	if cfg.AutoBackupThreshold != 10 {
		t.Errorf("expected threshold 10, got %d", cfg.AutoBackupThreshold)
	}
	if cfg.JuniorAgeLimit != 19 || cfg.MastersAgeMin != 50 {
		t.Errorf("unexpected age bounds %d/%d", cfg.JuniorAgeLimit, cfg.MastersAgeMin)
	}
	if cfg.WaveATime != "09:00:00" || cfg.WaveBTime != "09:15:00" || cfg.WaveCTime != "09:30:00" {
		t.Errorf("unexpected wave times %q %q %q", cfg.WaveATime, cfg.WaveBTime, cfg.WaveCTime)
	}
	if cfg.ClockCheckTimeout() != 5*time.Second {
		t.Errorf("expected 5s clock check timeout, got %v", cfg.ClockCheckTimeout())
	}
	if cfg.ClockSkewTolerance() != time.Minute {
		t.Errorf("expected 60s skew tolerance, got %v", cfg.ClockSkewTolerance())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PACELINE_ADDR", ":7000")
	t.Setenv("PACELINE_EVENT_NAME", "Spring Opener")
	t.Setenv("PACELINE_AUTO_BACKUP_THRESHOLD", "5")
	t.Setenv("PACELINE_WAVE_B_TIME", "10:15:00")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("expected addr :7000, got %q", cfg.Addr)
	}
	if cfg.EventName != "Spring Opener" {
		t.Errorf("expected overridden event name, got %q", cfg.EventName)
	}
	if cfg.AutoBackupThreshold != 5 {
		t.Errorf("expected threshold 5, got %d", cfg.AutoBackupThreshold)
	}
	if cfg.WaveBTime != "10:15:00" {
		t.Errorf("expected wave B 10:15:00, got %q", cfg.WaveBTime)
	}
	// Untouched keys keep defaults
	if cfg.WaveATime != "09:00:00" {
		t.Errorf("expected default wave A, got %q", cfg.WaveATime)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":7100\"\njunior_age_limit: 18\nmasters_age_min: 55\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("PACELINE_CONFIG", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7100" {
		t.Errorf("expected addr :7100, got %q", cfg.Addr)
	}
	if cfg.JuniorAgeLimit != 18 || cfg.MastersAgeMin != 55 {
		t.Errorf("unexpected age bounds %d/%d", cfg.JuniorAgeLimit, cfg.MastersAgeMin)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7100\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("PACELINE_CONFIG", path)
	t.Setenv("PACELINE_ADDR", ":7200")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7200" {
		t.Errorf("expected env to win, got %q", cfg.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PACELINE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(context.Background()); !errors.Is(err, ErrLoadConfig) {
		t.Errorf("expected ErrLoadConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"empty data path", func(c *Config) { c.DataPath = "" }},
		{"zero backup threshold", func(c *Config) { c.AutoBackupThreshold = 0 }},
		{"inverted age bounds", func(c *Config) { c.MastersAgeMin = 18 }},
		{"zero leaderboard cap", func(c *Config) { c.MaxLeaderboardLimit = 0 }},
		{"malformed wave time", func(c *Config) { c.WaveCTime = "9:30" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			if err := validate(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := validate(New()); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
