package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/phrazzld/pairmatch/internal/config"
	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory}, nil)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		require.NoError(t, s.SaveBest(ctx, &domain.BestResult{LevelID: "level-1", BestScore: 100}))
		best, err := s.GetBest(ctx, "level-1")
		require.NoError(t, err)
		assert.Equal(t, 100, best.BestScore)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.db")
		s, err := Open(ctx, config.StorageConfig{Driver: config.DriverSQLite, URL: path}, nil)
		require.NoError(t, err)
		defer func() { _ = s.Close() }()

		assert.IsType(t, &sqlite.Store{}, s)
		level, err := s.GetCurrentLevel(ctx)
		require.NoError(t, err)
		assert.Empty(t, level)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Driver: "floppy"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown storage driver "floppy"`)
	})
}
