package app

import "errors"

// Sentinel kinds for session errors. These allow errors.Is/As from callers.
var (
	ErrEmptyBib           = errors.New("bib must not be empty")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrRegistrantNotFound = errors.New("registrant not found")
	ErrBibTaken           = errors.New("bib already registered")
	ErrInvalidInput       = errors.New("invalid input")
)
