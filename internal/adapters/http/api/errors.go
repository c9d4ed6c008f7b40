package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest           = errors.New("bad request")
	ErrConfirmationMismatch = errors.New("confirmation text does not match")
)
