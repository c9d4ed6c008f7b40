package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestInitAndGet(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := Get()
	if l == nil {
		t.Fatal("expected a logger")
	}

	// Logging must not panic with assorted field types
	ctx := context.Background()
	l.Info(ctx, "race started",
		String("event", "test"),
		Int("registrants", 3),
		Int64("id", 7),
		Any("clock", map[string]string{"A": "09:00:00"}),
		Error(errors.New("boom")),
	)
	l.Named("session").Warn(ctx, "named logger works")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	valid := []string{"debug", "info", "warn", "warning", "error", "DEBUG", " info ", ""}
	for _, level := range valid {
		if err := SetLevelString(level); err != nil {
			t.Errorf("expected %q to be accepted: %v", level, err)
		}
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected unknown level to be rejected")
	}

	// leave the level sane for other tests
	SetLevel(slog.LevelInfo)
}

func TestFieldConstructors(t *testing.T) {
	if f := String("k", "v"); f.Key != "k" || f.Value != "v" {
		t.Errorf("unexpected field %+v", f)
	}
	if f := Int("n", 3); f.Value != 3 {
		t.Errorf("unexpected field %+v", f)
	}
	err := errors.New("boom")
	if f := Error(err); f.Key != "error" || f.Value != err {
		t.Errorf("unexpected field %+v", f)
	}
}
