// Package storetest holds the behavioural tests every store.ResultStore
// backend must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.ResultStore

// Run executes the shared ResultStore suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("GetBest on unknown level", func(t *testing.T) {
		s := newStore(t)
		best, err := s.GetBest(context.Background(), "level-1")
		assert.Nil(t, best)
		assert.ErrorIs(t, err, store.ErrBestResultNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("SaveBest round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := &domain.BestResult{LevelID: "level-1", BestScore: 800, BestTime: 42 * time.Second, HasTime: true}
		require.NoError(t, s.SaveBest(ctx, in))

		got, err := s.GetBest(ctx, "level-1")
		require.NoError(t, err)
		assert.Equal(t, "level-1", got.LevelID)
		assert.Equal(t, 800, got.BestScore)
		assert.Equal(t, 42*time.Second, got.BestTime)
		assert.True(t, got.HasTime)

		in.BestScore = 100
		require.NoError(t, s.SaveBest(ctx, in))
		got, err = s.GetBest(ctx, "level-1")
		require.NoError(t, err)
		assert.Equal(t, 100, got.BestScore, "SaveBest overwrites")
	})

	t.Run("SaveBest without time", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveBest(ctx, &domain.BestResult{LevelID: "no-time", BestScore: 300}))
		got, err := s.GetBest(ctx, "no-time")
		require.NoError(t, err)
		assert.False(t, got.HasTime)
		assert.Equal(t, 300, got.BestScore)
	})

	t.Run("SaveBest rejects invalid entity", func(t *testing.T) {
		s := newStore(t)
		err := s.SaveBest(context.Background(), &domain.BestResult{LevelID: "", BestScore: 1})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)

		err = s.SaveBest(context.Background(), &domain.BestResult{LevelID: "neg", BestScore: -1})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("GetTotals starts at zero", func(t *testing.T) {
		s := newStore(t)
		totals, err := s.GetTotals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Totals{}, *totals)
	})

	t.Run("Update creates defaults and persists", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.Update(ctx, "level-2", func(best *domain.BestResult, totals *domain.Totals) error {
			assert.Equal(t, "level-2", best.LevelID)
			assert.Zero(t, best.BestScore)
			assert.False(t, best.HasTime)
			assert.Equal(t, domain.Totals{}, *totals)

			best.BestScore = 500
			best.BestTime = 30 * time.Second
			best.HasTime = true
			totals.HighScore = 500
			totals.BestTime = 30 * time.Second
			totals.HasBestTime = true
			totals.TotalGames = 1
			return nil
		})
		require.NoError(t, err)

		best, err := s.GetBest(ctx, "level-2")
		require.NoError(t, err)
		assert.Equal(t, 500, best.BestScore)
		assert.Equal(t, 30*time.Second, best.BestTime)
		assert.True(t, best.HasTime)

		totals, err := s.GetTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Totals{HighScore: 500, BestTime: 30 * time.Second, HasBestTime: true, TotalGames: 1}, *totals)

		err = s.Update(ctx, "level-2", func(best *domain.BestResult, totals *domain.Totals) error {
			assert.Equal(t, 500, best.BestScore)
			assert.Equal(t, 1, totals.TotalGames)
			totals.TotalGames++
			return nil
		})
		require.NoError(t, err)

		totals, err = s.GetTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, totals.TotalGames)
	})

	t.Run("Update aborted by fn writes nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		boom := errors.New("boom")

		err := s.Update(ctx, "level-3", func(best *domain.BestResult, totals *domain.Totals) error {
			best.BestScore = 900
			totals.TotalGames = 10
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = s.GetBest(ctx, "level-3")
		assert.ErrorIs(t, err, store.ErrBestResultNotFound)
		totals, err := s.GetTotals(ctx)
		require.NoError(t, err)
		assert.Zero(t, totals.TotalGames)
	})

	t.Run("Update rejects empty level id", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(context.Background(), "", func(*domain.BestResult, *domain.Totals) error { return nil })
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("concurrent updates are atomic", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		const workers = 8

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.Update(ctx, "race", func(best *domain.BestResult, totals *domain.Totals) error {
					best.BestScore++
					totals.TotalGames++
					return nil
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		best, err := s.GetBest(ctx, "race")
		require.NoError(t, err)
		assert.Equal(t, workers, best.BestScore)
		totals, err := s.GetTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, workers, totals.TotalGames)
	})

	t.Run("current level", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		level, err := s.GetCurrentLevel(ctx)
		require.NoError(t, err)
		assert.Empty(t, level)

		require.NoError(t, s.SetCurrentLevel(ctx, "level-3"))
		level, err = s.GetCurrentLevel(ctx)
		require.NoError(t, err)
		assert.Equal(t, "level-3", level)

		require.NoError(t, s.SetCurrentLevel(ctx, "level-1"))
		level, err = s.GetCurrentLevel(ctx)
		require.NoError(t, err)
		assert.Equal(t, "level-1", level)
	})

	t.Run("Reset clears everything", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveBest(ctx, &domain.BestResult{LevelID: "a", BestScore: 1}))
		require.NoError(t, s.Update(ctx, "b", func(best *domain.BestResult, totals *domain.Totals) error {
			totals.TotalGames = 3
			return nil
		}))
		require.NoError(t, s.SetCurrentLevel(ctx, "b"))

		require.NoError(t, s.Reset(ctx))

		_, err := s.GetBest(ctx, "a")
		assert.ErrorIs(t, err, store.ErrBestResultNotFound)
		_, err = s.GetBest(ctx, "b")
		assert.ErrorIs(t, err, store.ErrBestResultNotFound)
		totals, err := s.GetTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Totals{}, *totals)
		level, err := s.GetCurrentLevel(ctx)
		require.NoError(t, err)
		assert.Empty(t, level)
	})
}
