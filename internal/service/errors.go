package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
var (
	// ErrInvalidResult indicates a best result or level id failed validation.
	ErrInvalidResult = errors.New("invalid result")

	// ErrStorageUnavailable indicates the result store could not complete
	// an operation, for example after repeated transaction conflicts.
	ErrStorageUnavailable = errors.New("result storage unavailable")
)
