package app

import (
	"time"

	"github.com/okian/paceline/internal/adapters/export"
	"github.com/okian/paceline/internal/adapters/repository"
	"github.com/okian/paceline/internal/domain/ranking"
	"github.com/okian/paceline/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithStore sets the persistence adapter. Without one the session is
// memory-only, which the tests use.
func WithStore(store repository.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithBackupSink sets the auto-backup destination.
func WithBackupSink(sink export.Sink) Option {
	return func(s *Session) {
		s.backups = sink
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAgePolicy sets the age-category thresholds.
func WithAgePolicy(p ranking.Policy) Option {
	return func(s *Session) {
		if p.JuniorAgeLimit > 0 && p.MastersAgeMin > p.JuniorAgeLimit {
			s.policy = p
		}
	}
}

// WithAutoBackupThreshold sets the number of recorded finishes between
// auto-backups.
func WithAutoBackupThreshold(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.autoBackupThreshold = n
		}
	}
}

// WithEventName labels exports and backups.
func WithEventName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.eventName = name
		}
	}
}

// WithDefaultWaveTimes sets the HH:MM:SS start defaults used when no
// persisted state exists.
func WithDefaultWaveTimes(a, b, c string) Option {
	return func(s *Session) {
		if a != "" && b != "" && c != "" {
			s.defaultTimes = [3]string{a, b, c}
		}
	}
}

// WithNow injects the session clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
