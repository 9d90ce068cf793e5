package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/phrazzld/pairmatch/internal/platform/postgres/migrations"
	"github.com/phrazzld/pairmatch/internal/store"
)

const currentLevelKey = "current_level"

// Source is the goose migration source for this backend.
var Source = migrate.Source{Dialect: "postgres", FS: migrations.FS}

// PostgresResultStore implements the store.ResultStore interface
// using a PostgreSQL database as the storage backend.
type PostgresResultStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresResultStore implements store.ResultStore interface
var _ store.ResultStore = (*PostgresResultStore)(nil)

// OpenDB connects to the database at url and verifies the connection.
// It does not migrate.
func OpenDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Open connects to the database at url and applies pending migrations.
func Open(ctx context.Context, url string, logger *slog.Logger) (*PostgresResultStore, error) {
	db, err := OpenDB(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := migrate.Run(ctx, db, Source, migrate.CommandUp); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return NewPostgresResultStore(db, logger), nil
}

// NewPostgresResultStore creates a store on an open, migrated database.
// It panics if db is nil. If logger is nil, a default logger will be used.
func NewPostgresResultStore(db *sql.DB, logger *slog.Logger) *PostgresResultStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_result_store")),
	}
}

// DB returns the underlying database handle.
func (s *PostgresResultStore) DB() *sql.DB {
	return s.db
}

// Close closes the database handle.
func (s *PostgresResultStore) Close() error {
	return s.db.Close()
}

// GetBest implements store.ResultStore.GetBest
func (s *PostgresResultStore) GetBest(ctx context.Context, levelID string) (*domain.BestResult, error) {
	best, err := getBest(ctx, s.db, levelID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBestResultNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get best result",
			slog.String("level_id", levelID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("best_result", "get", "query failed", MapError(err))
	}
	return best, nil
}

// SaveBest implements store.ResultStore.SaveBest
func (s *PostgresResultStore) SaveBest(ctx context.Context, best *domain.BestResult) error {
	if err := best.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := saveBest(ctx, s.db, best); err != nil {
		s.logger.ErrorContext(ctx, "failed to save best result",
			slog.String("level_id", best.LevelID),
			slog.String("error", err.Error()))
		return store.NewStoreError("best_result", "save", "upsert failed", MapError(err))
	}
	return nil
}

// GetTotals implements store.ResultStore.GetTotals
func (s *PostgresResultStore) GetTotals(ctx context.Context) (*domain.Totals, error) {
	totals, err := getTotals(ctx, s.db, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.Totals{}, nil
		}
		return nil, store.NewStoreError("totals", "get", "query failed", MapError(err))
	}
	return totals, nil
}

// Update implements store.ResultStore.Update
// The totals row is locked first, so concurrent updates are serialized
// even when they create the same level's first result.
func (s *PostgresResultStore) Update(ctx context.Context, levelID string, fn store.UpdateFn) error {
	if levelID == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyLevelID)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO result_totals (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
			return store.NewStoreError("totals", "update", "ensure row failed", MapError(err))
		}

		totals, err := getTotals(ctx, tx, true)
		if err != nil {
			return store.NewStoreError("totals", "update", "lock failed", MapError(err))
		}

		best, err := getBest(ctx, tx, levelID, true)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			fresh := domain.NewBestResult(levelID)
			best = &fresh
		case err != nil:
			return store.NewStoreError("best_result", "update", "lock failed", MapError(err))
		}

		if err := fn(best, totals); err != nil {
			return err
		}
		if err := best.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		if err := saveBest(ctx, tx, best); err != nil {
			return store.NewStoreError("best_result", "update", "upsert failed", MapError(err))
		}
		if err := saveTotals(ctx, tx, totals); err != nil {
			return store.NewStoreError("totals", "update", "write failed", MapError(err))
		}

		s.logger.DebugContext(ctx, "updated result",
			slog.String("level_id", levelID),
			slog.Int("best_score", best.BestScore),
			slog.Int("total_games", totals.TotalGames))
		return nil
	})
}

// GetCurrentLevel implements store.ResultStore.GetCurrentLevel
func (s *PostgresResultStore) GetCurrentLevel(ctx context.Context) (string, error) {
	var levelID string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM player_settings WHERE key = $1`, currentLevelKey).Scan(&levelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", store.NewStoreError("current_level", "get", "query failed", MapError(err))
	}
	return levelID, nil
}

// SetCurrentLevel implements store.ResultStore.SetCurrentLevel
func (s *PostgresResultStore) SetCurrentLevel(ctx context.Context, levelID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_settings (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		currentLevelKey, levelID)
	if err != nil {
		return store.NewStoreError("current_level", "set", "upsert failed", MapError(err))
	}
	return nil
}

// Reset implements store.ResultStore.Reset
func (s *PostgresResultStore) Reset(ctx context.Context) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		statements := []string{
			`DELETE FROM best_results`,
			`DELETE FROM player_settings`,
			`UPDATE result_totals
			    SET high_score = 0, best_time_ns = NULL, total_games = 0, updated_at = NOW()`,
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStoreError("results", "reset", "delete failed", err)
	}
	s.logger.InfoContext(ctx, "reset all results")
	return nil
}

func getBest(ctx context.Context, db store.DBTX, levelID string, forUpdate bool) (*domain.BestResult, error) {
	query := `SELECT level_id, best_score, best_time_ns, updated_at FROM best_results WHERE level_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		best     domain.BestResult
		bestTime sql.NullInt64
	)
	if err := db.QueryRowContext(ctx, query, levelID).
		Scan(&best.LevelID, &best.BestScore, &bestTime, &best.UpdatedAt); err != nil {
		return nil, err
	}
	best.BestTime, best.HasTime = store.DurationFromNull(bestTime)
	return &best, nil
}

func saveBest(ctx context.Context, db store.DBTX, best *domain.BestResult) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO best_results (level_id, best_score, best_time_ns, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (level_id) DO UPDATE
		    SET best_score = EXCLUDED.best_score,
		        best_time_ns = EXCLUDED.best_time_ns,
		        updated_at = EXCLUDED.updated_at`,
		best.LevelID, best.BestScore, store.NullDuration(best.BestTime, best.HasTime))
	return err
}

func getTotals(ctx context.Context, db store.DBTX, forUpdate bool) (*domain.Totals, error) {
	query := `SELECT high_score, best_time_ns, total_games FROM result_totals WHERE id = 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		totals   domain.Totals
		bestTime sql.NullInt64
	)
	if err := db.QueryRowContext(ctx, query).Scan(&totals.HighScore, &bestTime, &totals.TotalGames); err != nil {
		return nil, err
	}
	totals.BestTime, totals.HasBestTime = store.DurationFromNull(bestTime)
	return &totals, nil
}

func saveTotals(ctx context.Context, db store.DBTX, totals *domain.Totals) error {
	_, err := db.ExecContext(ctx,
		`UPDATE result_totals
		    SET high_score = $1, best_time_ns = $2, total_games = $3, updated_at = NOW()
		  WHERE id = 1`,
		totals.HighScore, store.NullDuration(totals.BestTime, totals.HasBestTime), totals.TotalGames)
	return err
}
