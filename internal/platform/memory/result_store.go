package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/store"
)

// ResultStore keeps results in maps guarded by a mutex.
type ResultStore struct {
	mu           sync.Mutex
	best         map[string]domain.BestResult
	totals       domain.Totals
	currentLevel string
	logger       *slog.Logger
	now          func() time.Time
}

// Ensure ResultStore implements store.ResultStore interface
var _ store.ResultStore = (*ResultStore)(nil)

// NewResultStore creates an empty ResultStore.
func NewResultStore(logger *slog.Logger) *ResultStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultStore{
		best:   make(map[string]domain.BestResult),
		logger: logger.With(slog.String("component", "memory_result_store")),
		now:    time.Now,
	}
}

// GetBest implements store.ResultStore.
func (s *ResultStore) GetBest(ctx context.Context, levelID string) (*domain.BestResult, error) {
	if levelID == "" {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyLevelID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	best, ok := s.best[levelID]
	if !ok {
		return nil, store.ErrBestResultNotFound
	}
	return &best, nil
}

// SaveBest implements store.ResultStore.
func (s *ResultStore) SaveBest(ctx context.Context, best *domain.BestResult) error {
	if err := best.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *best
	saved.UpdatedAt = s.now().UTC()
	s.best[best.LevelID] = saved
	return nil
}

// GetTotals implements store.ResultStore.
func (s *ResultStore) GetTotals(ctx context.Context) (*domain.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := s.totals
	return &totals, nil
}

// Update implements store.ResultStore. The whole read-modify-write runs
// under the store mutex.
func (s *ResultStore) Update(ctx context.Context, levelID string, fn store.UpdateFn) error {
	if levelID == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyLevelID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	best, ok := s.best[levelID]
	if !ok {
		best = domain.NewBestResult(levelID)
	}
	totals := s.totals

	if err := fn(&best, &totals); err != nil {
		return err
	}
	if err := best.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	best.UpdatedAt = s.now().UTC()
	s.best[levelID] = best
	s.totals = totals

	s.logger.DebugContext(ctx, "updated result",
		slog.String("level_id", levelID),
		slog.Int("best_score", best.BestScore),
		slog.Int("total_games", totals.TotalGames))
	return nil
}

// GetCurrentLevel implements store.ResultStore.
func (s *ResultStore) GetCurrentLevel(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLevel, nil
}

// SetCurrentLevel implements store.ResultStore.
func (s *ResultStore) SetCurrentLevel(ctx context.Context, levelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLevel = levelID
	return nil
}

// Reset implements store.ResultStore.
func (s *ResultStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.best = make(map[string]domain.BestResult)
	s.totals = domain.Totals{}
	s.currentLevel = ""
	s.logger.InfoContext(ctx, "reset all results")
	return nil
}
