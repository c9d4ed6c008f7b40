package reconcile

import "errors"

// Sentinel kinds for reconciliation errors.
var (
	// ErrInvalidEdit marks an edit rejected before any field changed.
	ErrInvalidEdit = errors.New("invalid entry edit")
)
