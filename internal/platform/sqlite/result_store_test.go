package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/phrazzld/pairmatch/internal/store"
	"github.com/phrazzld/pairmatch/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "results.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ResultStore {
		return openTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage path is required")
}

func TestReopenKeepsResults(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveBest(ctx, &domain.BestResult{
		LevelID: "level-1", BestScore: 700, BestTime: 12 * time.Second, HasTime: true,
	}))
	require.NoError(t, s.SetCurrentLevel(ctx, "level-1"))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	best, err := reopened.GetBest(ctx, "level-1")
	require.NoError(t, err)
	assert.Equal(t, 700, best.BestScore)
	assert.Equal(t, 12*time.Second, best.BestTime)

	level, err := reopened.GetCurrentLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "level-1", level)

	version, err := migrate.Version(ctx, reopened.DB(), Source)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestUpdatedAtUsesClock(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ctx := context.Background()
	require.NoError(t, s.SaveBest(ctx, &domain.BestResult{LevelID: "level-1", BestScore: 1}))

	best, err := s.GetBest(ctx, "level-1")
	require.NoError(t, err)
	assert.True(t, fixed.Equal(best.UpdatedAt))
}

func TestMapErrorConstraints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO best_results (level_id, best_score, updated_at) VALUES ('bad', -1, 0)`)
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)

	_, err = s.DB().ExecContext(ctx,
		`INSERT INTO player_settings (key, value, updated_at) VALUES ('k', 'v', 0)`)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx,
		`INSERT INTO player_settings (key, value, updated_at) VALUES ('k', 'w', 0)`)
	require.Error(t, err)
	assert.ErrorIs(t, MapError(err), store.ErrDuplicate)

	assert.Nil(t, MapError(nil))
}
