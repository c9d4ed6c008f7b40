package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/paceline/internal/domain/model"
)

// Backup is the downloadable full-state snapshot. Importing one
// replaces the session state wholesale; the directory round-trips
// order-insensitively, the ledger order-preserving.
type Backup struct {
	ExportID     string                 `json:"export_id"`
	ExportDate   time.Time              `json:"export_date"`
	Event        string                 `json:"event"`
	WaveStarts   model.WaveClock        `json:"wave_start_times"`
	Registrants  []model.RegistrantPair `json:"registrants"`
	Entries      []model.Entry          `json:"entries"`
	EntryCounter int64                  `json:"entry_counter"`
}

// NewBackup wraps a snapshot for export under the event label.
func NewBackup(snap *model.Snapshot, event string, at time.Time) *Backup {
	return &Backup{
		ExportID:     uuid.NewString(),
		ExportDate:   at,
		Event:        event,
		WaveStarts:   snap.WaveStarts,
		Registrants:  snap.Registrants,
		Entries:      snap.Entries,
		EntryCounter: snap.EntryCounter,
	}
}

// Snapshot converts an imported backup back into session state.
func (b *Backup) Snapshot() *model.Snapshot {
	return &model.Snapshot{
		WaveStarts:   b.WaveStarts,
		Registrants:  b.Registrants,
		Entries:      b.Entries,
		EntryCounter: b.EntryCounter,
		LastSaved:    b.ExportDate,
	}
}

// WriteBackup writes the backup as indented JSON.
func WriteBackup(w io.Writer, b *Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup parses a backup produced by WriteBackup.
func ReadBackup(r io.Reader) (*Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &b, nil
}
