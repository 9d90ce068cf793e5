package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/phrazzld/pairmatch/internal/platform/postgres"
	"github.com/phrazzld/pairmatch/internal/store"
	"github.com/phrazzld/pairmatch/internal/store/storetest"
	"github.com/phrazzld/pairmatch/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to the test database and empties it.
func openTestStore(t *testing.T) *postgres.PostgresResultStore {
	t.Helper()

	url := testdb.PostgresURL(t)
	s, err := postgres.Open(context.Background(), url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Reset(context.Background()))
	return s
}

func TestPostgresResultStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ResultStore {
		return openTestStore(t)
	})
}

func TestPostgresMigrationsAreReversible(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	version, err := migrate.Version(ctx, s.DB(), postgres.Source)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, migrate.Run(ctx, s.DB(), postgres.Source, migrate.CommandDown))
	var exists bool
	err = s.DB().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'best_results')`).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, migrate.Run(ctx, s.DB(), postgres.Source, migrate.CommandUp))
}

func TestPostgresCheckConstraintMapsToInvalidEntity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO best_results (level_id, best_score) VALUES ('bad', -5)`)
	require.Error(t, err)
	assert.True(t, postgres.IsCheckConstraintViolation(err))
	assert.ErrorIs(t, postgres.MapError(err), store.ErrInvalidEntity)
}

func TestNewPostgresResultStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		postgres.NewPostgresResultStore((*sql.DB)(nil), nil)
	})
}
