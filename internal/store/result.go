package store

import (
	"context"

	"github.com/phrazzld/pairmatch/internal/domain"
)

// UpdateFn mutates the best result of one level and the global totals.
// Returning an error aborts the update and nothing is written.
type UpdateFn func(best *domain.BestResult, totals *domain.Totals) error

// ResultStore defines the interface for best-result persistence.
// Version: 1.0
type ResultStore interface {
	// GetBest retrieves the best result recorded for levelID.
	// Returns ErrBestResultNotFound if the level has no history.
	GetBest(ctx context.Context, levelID string) (*domain.BestResult, error)

	// SaveBest overwrites the best result of best.LevelID.
	// Returns an error wrapping ErrInvalidEntity if best fails validation.
	SaveBest(ctx context.Context, best *domain.BestResult) error

	// GetTotals retrieves the global counters. A store with no history
	// returns zero totals, not an error.
	GetTotals(ctx context.Context) (*domain.Totals, error)

	// Update runs fn against the stored best result of levelID and the
	// global totals, then persists both. A level with no history is passed
	// in as domain.NewBestResult(levelID). The read, fn and the write are
	// atomic with respect to other Update calls on the same store.
	Update(ctx context.Context, levelID string, fn UpdateFn) error

	// GetCurrentLevel returns the id of the level the player last
	// selected, or "" if none was saved.
	GetCurrentLevel(ctx context.Context) (string, error)

	// SetCurrentLevel saves the id of the selected level.
	SetCurrentLevel(ctx context.Context, levelID string) error

	// Reset deletes every best result, the totals and the current level.
	Reset(ctx context.Context) error
}
