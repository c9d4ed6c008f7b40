package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/okian/paceline/internal/domain/model"
)

// Bucket and key layout. Each bucket holds exactly one record under
// latestKey; ReplaceAll/SaveSetup overwrite it wholesale.
var (
	raceStateBucket = []byte("race_state")
	setupBucket     = []byte("setup_config")
	latestKey       = []byte("latest")
)

// Defaults for opening the database file.
const (
	defaultFileMode    = os.FileMode(0o600)
	defaultOpenTimeout = time.Second
)

// BoltStore persists snapshots in a single bbolt file.
type BoltStore struct {
	db          *bolt.DB
	fileMode    os.FileMode
	openTimeout time.Duration
}

// Open opens (or creates) the database at path and ensures the buckets
// exist.
func Open(path string, opts ...Option) (*BoltStore, error) {
	s := &BoltStore{
		fileMode:    defaultFileMode,
		openTimeout: defaultOpenTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := bolt.Open(path, s.fileMode, &bolt.Options{Timeout: s.openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{raceStateBucket, setupBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.db = db
	return s, nil
}

// LoadLatest returns the persisted race snapshot.
func (s *BoltStore) LoadLatest(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := s.loadJSON(ctx, raceStateBucket, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ReplaceAll overwrites the persisted race snapshot.
func (s *BoltStore) ReplaceAll(ctx context.Context, snap *model.Snapshot) error {
	return s.saveJSON(ctx, raceStateBucket, snap)
}

// LoadSetup returns the persisted wave times-of-day.
func (s *BoltStore) LoadSetup(ctx context.Context) (*model.SetupConfig, error) {
	var cfg model.SetupConfig
	if err := s.loadJSON(ctx, setupBucket, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveSetup overwrites the persisted wave times-of-day.
func (s *BoltStore) SaveSetup(ctx context.Context, cfg *model.SetupConfig) error {
	return s.saveJSON(ctx, setupBucket, cfg)
}

// Reset drops both records.
func (s *BoltStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{raceStateBucket, setupBucket} {
			if err := tx.Bucket(name).Delete(latestKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (s *BoltStore) loadJSON(ctx context.Context, bucket []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucket).Get(latestKey); data != nil {
			raw = append(raw, data...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", bucket, err)
	}
	if raw == nil {
		return ErrNoSnapshot
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

func (s *BoltStore) saveJSON(ctx context.Context, bucket []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", bucket, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(latestKey, raw)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", bucket, err)
	}
	return nil
}
