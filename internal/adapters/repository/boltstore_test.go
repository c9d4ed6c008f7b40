package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/paceline/internal/domain/model"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "race.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSnapshot() *model.Snapshot {
	day := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	elapsed := int64(125000)
	return &model.Snapshot{
		WaveStarts: model.WaveClock{
			A: day.Add(9 * time.Hour),
			B: day.Add(9*time.Hour + 15*time.Minute),
			C: day.Add(9*time.Hour + 30*time.Minute),
		},
		Registrants: []model.RegistrantPair{
			{Bib: "101", Registrant: model.Registrant{Bib: "101", FirstName: "Maya", LastName: "Chen", Wave: model.WaveA, DOB: "1984-05-20", Gender: model.GenderFemale}},
		},
		Entries: []model.Entry{
			{ID: 1, Bib: "101", Wave: model.WaveA, FirstName: "Maya", LastName: "Chen", FinishedAt: day.Add(9*time.Hour + 2*time.Minute + 5*time.Second), ElapsedMs: &elapsed, RecordedAt: day.Add(9*time.Hour + 2*time.Minute + 5*time.Second)},
			{ID: 2, Bib: "UNK-1", Wave: model.WaveNone, FirstName: "Unknown", LastName: "Rider", FinishedAt: day.Add(10 * time.Hour), RecordedAt: day.Add(10 * time.Hour)},
		},
		EntryCounter: 2,
		LastSaved:    day.Add(10 * time.Hour),
	}
}

func TestBoltStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// Empty store reports no snapshot
	if _, err := store.LoadLatest(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	snap := sampleSnapshot()
	if err := store.ReplaceAll(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EntryCounter != snap.EntryCounter {
		t.Errorf("expected counter %d, got %d", snap.EntryCounter, got.EntryCounter)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[0].ElapsedMs == nil || *got.Entries[0].ElapsedMs != 125000 {
		t.Errorf("expected elapsed 125000ms, got %v", got.Entries[0].ElapsedMs)
	}
	if got.Entries[1].ElapsedMs != nil {
		t.Errorf("expected nil elapsed on placeholder entry, got %v", *got.Entries[1].ElapsedMs)
	}
	if !got.WaveStarts.A.Equal(snap.WaveStarts.A) {
		t.Errorf("expected wave A start %v, got %v", snap.WaveStarts.A, got.WaveStarts.A)
	}
	if len(got.Registrants) != 1 || got.Registrants[0].Registrant.Gender != model.GenderFemale {
		t.Errorf("registrant pair did not round-trip: %+v", got.Registrants)
	}
}

func TestBoltStore_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	snap := sampleSnapshot()
	if err := store.ReplaceAll(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later save fully replaces the earlier record
	snap.Entries = snap.Entries[:1]
	snap.EntryCounter = 5
	if err := store.ReplaceAll(ctx, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 1 || got.EntryCounter != 5 {
		t.Errorf("expected replaced snapshot, got %d entries counter %d", len(got.Entries), got.EntryCounter)
	}
}

func TestBoltStore_SetupConfig(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.LoadSetup(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	cfg := &model.SetupConfig{
		WaveATime:   "09:00:00",
		WaveBTime:   "09:15:00",
		WaveCTime:   "09:30:00",
		LastUpdated: time.Date(2026, 6, 14, 8, 0, 0, 0, time.UTC),
	}
	if err := store.SaveSetup(ctx, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.LoadSetup(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WaveBTime != "09:15:00" {
		t.Errorf("expected wave B time 09:15:00, got %q", got.WaveBTime)
	}
}

func TestBoltStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.ReplaceAll(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSetup(ctx, &model.SetupConfig{WaveATime: "09:00:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.LoadLatest(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot after reset, got %v", err)
	}
	// Setup is wiped too; a fresh race re-seeds from config defaults
	if _, err := store.LoadSetup(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot after reset, got %v", err)
	}
}

func TestBoltStore_ContextCancelled(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.ReplaceAll(ctx, sampleSnapshot()); err == nil {
		t.Error("expected error from cancelled context")
	}
	if _, err := store.LoadLatest(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestBoltStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "race.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.ReplaceAll(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Errorf("expected 2 entries after reopen, got %d", len(got.Entries))
	}
}
