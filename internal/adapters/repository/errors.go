package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	// ErrNoSnapshot means nothing has been persisted yet; callers fall
	// back to defaults.
	ErrNoSnapshot = errors.New("no snapshot persisted")
)
