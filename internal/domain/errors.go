// Package domain defines the core game entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidConfig is returned when deck or level parameters cannot
	// produce a playable round. It is fatal to starting a round.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrRejected is returned when a reveal or commit request is illegal
	// given the current phase or card state. It is never fatal; callers
	// ignore it or surface a soft UI cue.
	ErrRejected = errors.New("request rejected")

	// ErrUnknownCard is returned when a reveal references an instance id
	// that is not part of the current round. It is a kind of ErrRejected.
	ErrUnknownCard = fmt.Errorf("%w: unknown card", ErrRejected)

	// ErrEmptyLevelID is returned when a level or result has no level id.
	ErrEmptyLevelID = errors.New("level ID cannot be empty")
)

// IsRejected reports whether err is a rejected request, including
// requests for unknown cards.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
