package domain

import (
	"fmt"
	"strings"
)

// MaxCards bounds the number of cells a level grid may hold.
const MaxCards = 1024

// LevelConfig describes the grid layout of a level. It is read-only input
// supplied by the caller when starting a round.
type LevelConfig struct {
	LevelID    string `json:"level_id" mapstructure:"id" validate:"required"`
	GridWidth  int    `json:"grid_width" mapstructure:"width" validate:"gt=0"`
	GridHeight int    `json:"grid_height" mapstructure:"height" validate:"gt=0"`
}

// Validate checks that the level can be laid out as pairs.
// Returns an error wrapping ErrInvalidConfig if it cannot.
func (l LevelConfig) Validate() error {
	if strings.TrimSpace(l.LevelID) == "" {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, ErrEmptyLevelID)
	}
	if l.GridWidth <= 0 || l.GridHeight <= 0 {
		return fmt.Errorf("%w: grid %dx%d must have positive dimensions",
			ErrInvalidConfig, l.GridWidth, l.GridHeight)
	}
	// Each side is bounded first so the product cannot overflow.
	if l.GridWidth > MaxCards || l.GridHeight > MaxCards || l.GridWidth*l.GridHeight > MaxCards {
		return fmt.Errorf("%w: grid %dx%d exceeds %d cards",
			ErrInvalidConfig, l.GridWidth, l.GridHeight, MaxCards)
	}
	if (l.GridWidth*l.GridHeight)%2 != 0 {
		return fmt.Errorf("%w: grid %dx%d has an odd number of cells",
			ErrInvalidConfig, l.GridWidth, l.GridHeight)
	}
	return nil
}

// CardCount returns the number of grid cells.
func (l LevelConfig) CardCount() int {
	return l.GridWidth * l.GridHeight
}

// PairCount returns the number of pairs the grid holds.
func (l LevelConfig) PairCount() int {
	return l.CardCount() / 2
}

// Label returns the menu label for the level, e.g. "4 x 4".
func (l LevelConfig) Label() string {
	return fmt.Sprintf("%d x %d", l.GridWidth, l.GridHeight)
}

// Slot converts a row-major grid slot into its row and column.
func (l LevelConfig) Slot(slot int) (row, col int) {
	if l.GridWidth <= 0 {
		return 0, 0
	}
	return slot / l.GridWidth, slot % l.GridWidth
}
