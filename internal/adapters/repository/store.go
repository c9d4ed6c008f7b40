// Package repository defines the durable snapshot store interface and
// its bbolt implementation.
package repository

import (
	"context"

	"github.com/okian/paceline/internal/domain/model"
)

// Store provides durable snapshot/restore for a timing session. A
// single latest record exists for each of the race state and the setup
// config; writes replace, never merge. Persistence is best-effort
// durability: callers keep their in-memory state regardless of write
// failures.
type Store interface {
	// LoadLatest returns the persisted race snapshot, or ErrNoSnapshot
	// when none has been saved yet.
	LoadLatest(ctx context.Context) (*model.Snapshot, error)

	// ReplaceAll overwrites the persisted race snapshot.
	ReplaceAll(ctx context.Context, snap *model.Snapshot) error

	// LoadSetup returns the persisted wave times-of-day, or
	// ErrNoSnapshot when none has been saved yet.
	LoadSetup(ctx context.Context) (*model.SetupConfig, error)

	// SaveSetup overwrites the persisted wave times-of-day.
	SaveSetup(ctx context.Context, cfg *model.SetupConfig) error

	// Reset drops both records.
	Reset(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}
