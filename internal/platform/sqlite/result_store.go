package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/phrazzld/pairmatch/internal/platform/sqlite/migrations"
	"github.com/phrazzld/pairmatch/internal/store"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const currentLevelKey = "current_level"

// Source is the goose migration source for this backend.
var Source = migrate.Source{Dialect: "sqlite3", FS: migrations.FS}

// Store persists best results in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.ResultStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenDB opens the SQLite file at path without migrating it.
// Writers are serialized on a single connection with IMMEDIATE
// transactions.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Open opens the SQLite file at path and applies embedded migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrate.Run(ctx, db, Source, migrate.CommandUp); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_result_store")),
		now:    time.Now,
	}, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetBest implements store.ResultStore.
func (s *Store) GetBest(ctx context.Context, levelID string) (*domain.BestResult, error) {
	best, err := getBest(ctx, s.db, levelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBestResultNotFound
		}
		return nil, store.NewStoreError("best_result", "get", "query failed", MapError(err))
	}
	return best, nil
}

// SaveBest implements store.ResultStore.
func (s *Store) SaveBest(ctx context.Context, best *domain.BestResult) error {
	if err := best.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if err := saveBest(ctx, s.db, best, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "failed to save best result",
			slog.String("level_id", best.LevelID),
			slog.String("error", err.Error()))
		return store.NewStoreError("best_result", "save", "upsert failed", MapError(err))
	}
	return nil
}

// GetTotals implements store.ResultStore.
func (s *Store) GetTotals(ctx context.Context) (*domain.Totals, error) {
	totals, err := getTotals(ctx, s.db)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.Totals{}, nil
		}
		return nil, store.NewStoreError("totals", "get", "query failed", MapError(err))
	}
	return totals, nil
}

// Update implements store.ResultStore. The transaction takes the write
// lock at BEGIN, so the read-modify-write cannot interleave.
func (s *Store) Update(ctx context.Context, levelID string, fn store.UpdateFn) error {
	if levelID == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyLevelID)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		totals, err := getTotals(ctx, tx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			totals = &domain.Totals{}
		case err != nil:
			return store.NewStoreError("totals", "update", "query failed", MapError(err))
		}

		best, err := getBest(ctx, tx, levelID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			fresh := domain.NewBestResult(levelID)
			best = &fresh
		case err != nil:
			return store.NewStoreError("best_result", "update", "query failed", MapError(err))
		}

		if err := fn(best, totals); err != nil {
			return err
		}
		if err := best.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		now := s.now()
		if err := saveBest(ctx, tx, best, now); err != nil {
			return store.NewStoreError("best_result", "update", "upsert failed", MapError(err))
		}
		if err := saveTotals(ctx, tx, totals, now); err != nil {
			return store.NewStoreError("totals", "update", "write failed", MapError(err))
		}
		return nil
	})
}

// GetCurrentLevel implements store.ResultStore.
func (s *Store) GetCurrentLevel(ctx context.Context) (string, error) {
	var levelID string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM player_settings WHERE key = ?`, currentLevelKey).Scan(&levelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", store.NewStoreError("current_level", "get", "query failed", MapError(err))
	}
	return levelID, nil
}

// SetCurrentLevel implements store.ResultStore.
func (s *Store) SetCurrentLevel(ctx context.Context, levelID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		currentLevelKey, levelID, toMillis(s.now()))
	if err != nil {
		return store.NewStoreError("current_level", "set", "upsert failed", MapError(err))
	}
	return nil
}

// Reset implements store.ResultStore.
func (s *Store) Reset(ctx context.Context) error {
	now := toMillis(s.now())
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM best_results`); err != nil {
			return MapError(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM player_settings`); err != nil {
			return MapError(err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO result_totals (id, high_score, best_time_ns, total_games, updated_at)
			 VALUES (1, 0, NULL, 0, ?)
			 ON CONFLICT(id) DO UPDATE
			    SET high_score = 0, best_time_ns = NULL, total_games = 0, updated_at = excluded.updated_at`,
			now)
		return MapError(err)
	})
	if err != nil {
		return store.NewStoreError("results", "reset", "delete failed", err)
	}
	s.logger.InfoContext(ctx, "reset all results")
	return nil
}

func getBest(ctx context.Context, db store.DBTX, levelID string) (*domain.BestResult, error) {
	var (
		best      domain.BestResult
		bestTime  sql.NullInt64
		updatedAt int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT level_id, best_score, best_time_ns, updated_at FROM best_results WHERE level_id = ?`,
		levelID,
	).Scan(&best.LevelID, &best.BestScore, &bestTime, &updatedAt)
	if err != nil {
		return nil, err
	}
	best.BestTime, best.HasTime = store.DurationFromNull(bestTime)
	best.UpdatedAt = fromMillis(updatedAt)
	return &best, nil
}

func saveBest(ctx context.Context, db store.DBTX, best *domain.BestResult, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO best_results (level_id, best_score, best_time_ns, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(level_id) DO UPDATE
		    SET best_score = excluded.best_score,
		        best_time_ns = excluded.best_time_ns,
		        updated_at = excluded.updated_at`,
		best.LevelID, best.BestScore, store.NullDuration(best.BestTime, best.HasTime), toMillis(now))
	return err
}

func getTotals(ctx context.Context, db store.DBTX) (*domain.Totals, error) {
	var (
		totals   domain.Totals
		bestTime sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		`SELECT high_score, best_time_ns, total_games FROM result_totals WHERE id = 1`,
	).Scan(&totals.HighScore, &bestTime, &totals.TotalGames)
	if err != nil {
		return nil, err
	}
	totals.BestTime, totals.HasBestTime = store.DurationFromNull(bestTime)
	return &totals, nil
}

func saveTotals(ctx context.Context, db store.DBTX, totals *domain.Totals, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO result_totals (id, high_score, best_time_ns, total_games, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE
		    SET high_score = excluded.high_score,
		        best_time_ns = excluded.best_time_ns,
		        total_games = excluded.total_games,
		        updated_at = excluded.updated_at`,
		totals.HighScore, store.NullDuration(totals.BestTime, totals.HasBestTime), totals.TotalGames, toMillis(now))
	return err
}
