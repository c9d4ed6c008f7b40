package app

import (
	"context"
	"io"

	"github.com/okian/paceline/internal/adapters/export"
	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/ranking"
	"github.com/okian/paceline/pkg/metrics"
)

// Read-side views. Placements and leaderboards are derived fresh on
// every call from a copy of current state; nothing here is cached.

// Entries returns the ledger in record order.
func (s *Session) Entries(ctx context.Context) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return s.entriesCopyLocked()
}

// Entry returns one ledger entry by id.
func (s *Session) Entry(ctx context.Context, id int64) (model.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Entry{}, false
	}
	return s.entries[idx], true
}

// Registrants returns the directory sorted by bib.
func (s *Session) Registrants(ctx context.Context) []model.Registrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return s.dir.All()
}

// Registrant looks up one rider by bib.
func (s *Session) Registrant(ctx context.Context, bib string) (model.Registrant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return s.dir.Lookup(bib)
}

// RegistrantWaveCounts returns registrants per wave.
func (s *Session) RegistrantWaveCounts(ctx context.Context) map[model.Wave]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return s.dir.WaveCounts()
}

// Clock returns the current wave start instants.
func (s *Session) Clock(ctx context.Context) model.WaveClock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return s.clock
}

// Overall returns the ranked sequence of placed entries.
func (s *Session) Overall(ctx context.Context) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return ranking.Overall(s.entries)
}

// Unassigned returns the wave-less entries, reported separately from
// the ranked sequence.
func (s *Session) Unassigned(ctx context.Context) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return ranking.Unassigned(s.entries)
}

// ByWave returns one wave's ranked sequence.
func (s *Session) ByWave(ctx context.Context, w model.Wave) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return ranking.ByWave(s.entries, w)
}

// Leaderboard returns the top n placed entries for a category view.
func (s *Session) Leaderboard(ctx context.Context, gender model.Gender, category ranking.AgeCategory, n int) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return ranking.Leaderboard(s.entries, s.dir, gender, category, s.policy, s.now(), n)
}

// Duplicates returns the bibs appearing on more than one entry.
func (s *Session) Duplicates(ctx context.Context) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return ranking.DuplicateBibs(s.entries)
}

// WriteResultsCSV writes the results export and returns the row count.
func (s *Session) WriteResultsCSV(ctx context.Context, w io.Writer) (int, error) {
	s.mu.RLock()
	entries := s.entriesCopyLocked()
	s.mu.RUnlock()
	_ = ctx
	return export.WriteResultsCSV(w, entries)
}

// GetStats returns session statistics for monitoring.
func (s *Session) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dupes := ranking.DuplicateBibs(s.entries)
	finishCounts := make(map[model.Wave]int, 3)
	for _, e := range s.entries {
		if e.Wave.Valid() {
			finishCounts[e.Wave]++
		}
	}

	stats := map[string]interface{}{
		"started":       s.started,
		"event":         s.eventName,
		"entries":       len(s.entries),
		"registrants":   s.dir.Len(),
		"entryCounter":  s.counter,
		"duplicateBibs": len(dupes),
		"unassigned":    len(ranking.Unassigned(s.entries)),
		"finishesByWave": map[string]int{
			string(model.WaveA): finishCounts[model.WaveA],
			string(model.WaveB): finishCounts[model.WaveB],
			string(model.WaveC): finishCounts[model.WaveC],
		},
	}

	metrics.UpdateEntryCount(len(s.entries))
	metrics.UpdateRegistrantCount(s.dir.Len())
	metrics.UpdateDuplicateBibs(len(dupes))

	return stats
}

func (s *Session) entriesCopyLocked() []model.Entry {
	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
