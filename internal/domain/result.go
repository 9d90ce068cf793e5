package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhasePreview is the initial phase; all cards are briefly shown.
	PhasePreview Phase = "preview"
	// PhaseIdle indicates the round accepts reveal requests.
	PhaseIdle Phase = "idle"
	// PhaseResolving indicates two cards are face up awaiting commit.
	PhaseResolving Phase = "resolving"
	// PhaseWon is terminal: every pair has been matched.
	PhaseWon Phase = "won"
)

// Combo tracks consecutive successful matches.
// Multiplier is always derived from Current.
type Combo struct {
	Current    int `json:"current"`
	Max        int `json:"max"`
	Multiplier int `json:"multiplier"`
}

// NewCombo returns the combo state at the start of a round.
func NewCombo() Combo {
	return Combo{Current: 0, Max: 0, Multiplier: 1}
}

// RoundResult is emitted when a round reaches PhaseWon.
type RoundResult struct {
	RoundID  uuid.UUID     `json:"round_id"`
	LevelID  string        `json:"level_id"`
	Score    int           `json:"score"`
	Elapsed  time.Duration `json:"elapsed"`
	MaxCombo int           `json:"max_combo"`
}

// BestResult is the persisted best score and time for one level.
// A level without a recorded time has HasTime false, meaning +Inf.
type BestResult struct {
	LevelID   string        `json:"level_id"`
	BestScore int           `json:"best_score"`
	BestTime  time.Duration `json:"best_time"`
	HasTime   bool          `json:"has_time"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewBestResult returns the defaults for a level with no history:
// score 0 and time +Inf.
func NewBestResult(levelID string) BestResult {
	return BestResult{LevelID: levelID}
}

// Validate checks if the BestResult has valid data.
func (b BestResult) Validate() error {
	if b.LevelID == "" {
		return ErrEmptyLevelID
	}
	if b.BestScore < 0 {
		return ErrInvalidConfig
	}
	if b.HasTime && b.BestTime < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Apply records result into b, overwriting only the fields it betters.
// Score and time are compared independently. It reports whether anything
// changed.
func (b *BestResult) Apply(result RoundResult) bool {
	changed := false
	if result.Score > b.BestScore {
		b.BestScore = result.Score
		changed = true
	}
	if !b.HasTime || result.Elapsed < b.BestTime {
		b.BestTime = result.Elapsed
		b.HasTime = true
		changed = true
	}
	return changed
}

// Totals holds the global counters kept across every level.
type Totals struct {
	HighScore   int           `json:"high_score"`
	BestTime    time.Duration `json:"best_time"`
	HasBestTime bool          `json:"has_best_time"`
	TotalGames  int           `json:"total_games"`
}

// Apply folds a completed round into the totals. TotalGames always
// increments; high score and best time only when bettered.
func (t *Totals) Apply(result RoundResult) {
	if result.Score > t.HighScore {
		t.HighScore = result.Score
	}
	if !t.HasBestTime || result.Elapsed < t.BestTime {
		t.BestTime = result.Elapsed
		t.HasBestTime = true
	}
	t.TotalGames++
}
