// Package app provides the session service: the single owner of the
// registrant directory, wave clock, finish ledger, and entry counter.
// Every mutation runs to completion under one lock and is followed by a
// best-effort snapshot persist, the Go rendition of the original
// single-operator event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/okian/paceline/internal/adapters/export"
	"github.com/okian/paceline/internal/adapters/repository"
	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/ranking"
	"github.com/okian/paceline/internal/domain/reconcile"
	"github.com/okian/paceline/internal/domain/roster"
	"github.com/okian/paceline/pkg/logger"
	"github.com/okian/paceline/pkg/metrics"
)

// Defaults for a session with no persisted state.
const (
	defaultAutoBackupThreshold = 10
	defaultEventName           = "East Bay Dirt Classic"

	defaultWaveATime = "09:00:00"
	defaultWaveBTime = "09:15:00"
	defaultWaveCTime = "09:30:00"
)

// Session implements the API dependencies for the timing system.
type Session struct {
	mu sync.RWMutex

	// Core state
	dir     *roster.Directory
	clock   model.WaveClock
	entries []model.Entry
	counter int64

	// Auto-backup bookkeeping
	sinceBackup int

	// Collaborators
	store   repository.Store
	backups export.Sink

	// Configuration
	policy              ranking.Policy
	eventName           string
	autoBackupThreshold int
	defaultTimes        [3]string // A, B, C times-of-day
	now                 func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a Session with default configuration.
func New(opts ...Option) *Session {
	s := &Session{
		dir:                 roster.New(),
		policy:              ranking.DefaultPolicy(),
		eventName:           defaultEventName,
		autoBackupThreshold: defaultAutoBackupThreshold,
		defaultTimes:        [3]string{defaultWaveATime, defaultWaveBTime, defaultWaveCTime},
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start restores persisted state. With nothing persisted, the wave
// clock is seeded from the last-used setup times-of-day on today's
// date, falling back to the configured defaults.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.seedClockLocked(s.defaultTimes[0], s.defaultTimes[1], s.defaultTimes[2])

	if s.store != nil {
		snap, err := s.store.LoadLatest(ctx)
		switch {
		case err == nil:
			s.restoreLocked(snap)
			s.logger.Info(ctx, "restored session",
				logger.Int("entries", len(s.entries)),
				logger.Int("registrants", s.dir.Len()),
			)
		case errors.Is(err, repository.ErrNoSnapshot):
			if setup, serr := s.store.LoadSetup(ctx); serr == nil {
				s.seedClockLocked(setup.WaveATime, setup.WaveBTime, setup.WaveCTime)
				s.logger.Info(ctx, "seeded wave clock from setup config")
			}
		default:
			s.logger.Warn(ctx, "failed to restore session; starting fresh", logger.Error(err))
		}
	}

	s.started = true
	return nil
}

// Stop closes the persistence adapter.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
		}
	}
	s.started = false
}

// RecordFinish records a finish-line crossing for bib at the current
// instant. An unmatched bib still produces a valid entry with
// placeholder identity.
func (s *Session) RecordFinish(ctx context.Context, bib string) (model.Entry, error) {
	if strings.TrimSpace(bib) == "" {
		return model.Entry{}, ErrEmptyBib
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := reconcile.RecordFinish(bib, s.now(), s.dir, s.clock)
	s.appendLocked(ctx, &e)
	metrics.RecordFinish()
	s.logger.Info(ctx, "finish recorded",
		logger.Int64("id", e.ID),
		logger.String("bib", e.Bib),
		logger.String("wave", string(e.Wave)),
	)
	return e, nil
}

// RecordUnknown records a placeholder finish for a rider whose bib
// cannot be determined at all.
func (s *Session) RecordUnknown(ctx context.Context) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := reconcile.RecordUnknown(s.now(), s.entries)
	s.appendLocked(ctx, &e)
	metrics.RecordUnknownFinish()
	s.logger.Info(ctx, "unknown finish recorded",
		logger.Int64("id", e.ID),
		logger.String("bib", e.Bib),
	)
	return e, nil
}

// appendLocked assigns the next id, commits the entry, persists, and
// schedules an auto-backup when the threshold is reached. The backup
// write happens after the entry is committed and off the request path.
func (s *Session) appendLocked(ctx context.Context, e *model.Entry) {
	s.counter++
	e.ID = s.counter
	s.entries = append(s.entries, *e)
	s.persistLocked(ctx)

	s.sinceBackup++
	if s.sinceBackup >= s.autoBackupThreshold && s.backups != nil {
		s.sinceBackup = 0
		b := export.NewBackup(s.snapshotLocked(), s.eventName, s.now())
		go s.writeBackup(ctx, b)
	}
}

func (s *Session) writeBackup(ctx context.Context, b *export.Backup) {
	if err := s.backups.Write(b); err != nil {
		s.logger.Warn(ctx, "auto-backup failed", logger.Error(err))
		return
	}
	metrics.RecordBackupWritten()
	s.logger.Info(ctx, "auto-backup written", logger.String("export_id", b.ExportID))
}

// EditEntry corrects an entry's bib, wave, and finish time-of-day. The
// id and creation timestamp are preserved; identity is re-derived from
// the new bib's registrant.
func (s *Session) EditEntry(ctx context.Context, id int64, newBib string, newWave model.Wave, timeOfDay string) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Entry{}, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	updated, err := reconcile.Edit(s.entries[idx], newBib, newWave, timeOfDay, s.dir, s.clock)
	if err != nil {
		return model.Entry{}, err
	}
	s.entries[idx] = updated
	s.persistLocked(ctx)
	metrics.RecordEntryEdit()
	s.logger.Info(ctx, "entry edited", logger.Int64("id", id), logger.String("bib", updated.Bib))
	return updated, nil
}

// DeleteEntry removes an entry from the ledger. The typed-confirmation
// guard lives in the presentation layer; once invoked this is
// unconditional.
func (s *Session) DeleteEntry(ctx context.Context, id int64) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Entry{}, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	removed := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.persistLocked(ctx)
	metrics.RecordEntryDelete()
	s.logger.Info(ctx, "entry deleted", logger.Int64("id", id), logger.String("bib", removed.Bib))
	return removed, nil
}

// RetimeWave corrects a wave's start time-of-day and recomputes every
// entry of that wave. The clock and ledger are swapped in atomically;
// no partial update is ever observable. Returns the affected count.
func (s *Session) RetimeWave(ctx context.Context, w model.Wave, timeOfDay string) (int, error) {
	if !w.Valid() {
		return 0, fmt.Errorf("%w: wave %q", ErrInvalidInput, w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The corrected start keeps the wave's current calendar date, so a
	// post-midnight correction cannot move the start to the wrong day.
	newStart, err := model.AtTimeOfDay(s.clock.Start(w), timeOfDay)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	clock, entries, affected := reconcile.Retime(w, newStart, s.clock, s.entries)
	s.clock = clock
	s.entries = entries
	s.persistLocked(ctx)
	metrics.RecordWaveRetime(affected)
	s.logger.Info(ctx, "wave retimed",
		logger.String("wave", string(w)),
		logger.String("start", newStart.Format(time.RFC3339)),
		logger.Int("affected", affected),
	)
	return affected, nil
}

// UpsertRegistrant inserts or updates one registrant.
func (s *Session) UpsertRegistrant(ctx context.Context, r model.Registrant) error {
	if strings.TrimSpace(r.Bib) == "" {
		return ErrEmptyBib
	}
	if !r.Wave.Valid() {
		return fmt.Errorf("%w: wave %q", ErrInvalidInput, r.Wave)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dir.Upsert(r)
	s.persistLocked(ctx)
	return nil
}

// DeleteRegistrant removes a registrant from the directory. Ledger
// entries carrying the bib keep their recorded snapshot.
func (s *Session) DeleteRegistrant(ctx context.Context, bib string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dir.Remove(bib) {
		return fmt.Errorf("%w: bib %q", ErrRegistrantNotFound, bib)
	}
	s.persistLocked(ctx)
	return nil
}

// RenameRegistrant reassigns a registrant's bib: delete-old-key plus
// insert-new-key.
func (s *Session) RenameRegistrant(ctx context.Context, oldBib, newBib string) error {
	if strings.TrimSpace(newBib) == "" {
		return ErrEmptyBib
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.dir.Lookup(newBib); taken {
		return fmt.Errorf("%w: bib %q", ErrBibTaken, newBib)
	}
	if !s.dir.Rename(oldBib, newBib) {
		return fmt.Errorf("%w: bib %q", ErrRegistrantNotFound, oldBib)
	}
	s.persistLocked(ctx)
	return nil
}

// ImportRegistrants replaces the whole directory from a CSV sheet and
// returns the number of rows loaded.
func (s *Session) ImportRegistrants(ctx context.Context, r io.Reader) (int, error) {
	dir, loaded, err := roster.ImportCSV(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dir = dir
	s.persistLocked(ctx)
	s.logger.Info(ctx, "registrants imported", logger.Int("loaded", loaded))
	return loaded, nil
}

// ExportBackup builds a downloadable full-state backup.
func (s *Session) ExportBackup(ctx context.Context) *export.Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return export.NewBackup(s.snapshotLocked(), s.eventName, s.now())
}

// RestoreBackup replaces all session state with the backup's. The
// presentation layer confirms first when non-empty data would be
// overwritten.
func (s *Session) RestoreBackup(ctx context.Context, b *export.Backup) error {
	if b == nil {
		return fmt.Errorf("%w: nil backup", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.restoreLocked(b.Snapshot())
	s.persistLocked(ctx)
	s.logger.Info(ctx, "backup restored",
		logger.Int("entries", len(s.entries)),
		logger.Int("registrants", s.dir.Len()),
	)
	return nil
}

// Reset drops every registrant, entry, and persisted record, and
// returns the wave clock to its defaults on today's date.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dir = roster.New()
	s.entries = nil
	s.counter = 0
	s.sinceBackup = 0
	s.seedClockLocked(s.defaultTimes[0], s.defaultTimes[1], s.defaultTimes[2])

	if s.store != nil {
		if err := s.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	s.logger.Info(ctx, "session reset")
	return nil
}

// HasData reports whether any registrants or entries exist; the
// presentation layer uses it to demand confirmation before a restore.
func (s *Session) HasData(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_ = ctx
	return len(s.entries) > 0 || s.dir.Len() > 0
}

// indexLocked returns the ledger index of entry id, or -1.
func (s *Session) indexLocked(id int64) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// seedClockLocked places the given times-of-day on today's date.
func (s *Session) seedClockLocked(a, b, c string) {
	today := s.now()
	for i, w := range model.Waves() {
		tod := []string{a, b, c}[i]
		start, err := model.AtTimeOfDay(today, tod)
		if err != nil {
			start, _ = model.AtTimeOfDay(today, [3]string{defaultWaveATime, defaultWaveBTime, defaultWaveCTime}[i])
		}
		s.clock.SetStart(w, start)
	}
}

// restoreLocked swaps in a snapshot wholesale.
func (s *Session) restoreLocked(snap *model.Snapshot) {
	s.clock = snap.WaveStarts
	s.dir = roster.FromPairs(snap.Registrants)
	s.entries = make([]model.Entry, len(snap.Entries))
	copy(s.entries, snap.Entries)
	s.counter = snap.EntryCounter
}

// snapshotLocked builds the persisted representation of current state.
func (s *Session) snapshotLocked() *model.Snapshot {
	entries := make([]model.Entry, len(s.entries))
	copy(entries, s.entries)
	return &model.Snapshot{
		WaveStarts:   s.clock,
		Registrants:  s.dir.Pairs(),
		Entries:      entries,
		EntryCounter: s.counter,
		LastSaved:    s.now(),
	}
}

// persistLocked snapshots state to the store. Persistence is
// best-effort durability: a failure is logged and counted, and the
// in-memory mutation is retained as the source of truth.
func (s *Session) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	start := s.now()
	snap := s.snapshotLocked()
	if err := s.store.ReplaceAll(ctx, snap); err != nil {
		metrics.RecordPersistenceError()
		s.logger.Error(ctx, "failed to persist snapshot", logger.Error(err))
		return
	}
	setup := &model.SetupConfig{
		WaveATime:   model.TimeOfDay(s.clock.A),
		WaveBTime:   model.TimeOfDay(s.clock.B),
		WaveCTime:   model.TimeOfDay(s.clock.C),
		LastUpdated: s.now(),
	}
	if err := s.store.SaveSetup(ctx, setup); err != nil {
		metrics.RecordPersistenceError()
		s.logger.Error(ctx, "failed to persist setup config", logger.Error(err))
		return
	}
	metrics.RecordSnapshot(float64(time.Since(start).Milliseconds()), snap.LastSaved.Unix())
}
