package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "pairmatch:"

// maxUpdateRetries bounds how often Update retries after a WATCH conflict.
const maxUpdateRetries = 64

// Store persists best results in Redis.
type Store struct {
	client goredis.UniversalClient
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

var _ store.ResultStore = (*Store)(nil)

// Open connects to the server described by url, either a redis:// URL or a
// bare host:port address, and pings it.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opts := &goredis.Options{Addr: url}
	if strings.Contains(url, "://") {
		parsed, err := goredis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewStore(client, DefaultPrefix, logger), nil
}

// NewStore wraps an existing client. It panics if client is nil.
func NewStore(client goredis.UniversalClient, prefix string, logger *slog.Logger) *Store {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("component", "redis_result_store")),
		now:    time.Now,
	}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) bestScoreKey(levelID string) string { return s.prefix + "BestScore_" + levelID }
func (s *Store) bestTimeKey(levelID string) string  { return s.prefix + "BestTime_" + levelID }
func (s *Store) updatedAtKey(levelID string) string { return s.prefix + "BestUpdatedAt_" + levelID }
func (s *Store) highScoreKey() string               { return s.prefix + "HighScore" }
func (s *Store) totalBestTimeKey() string           { return s.prefix + "BestTime" }
func (s *Store) totalGamesKey() string              { return s.prefix + "TotalGames" }
func (s *Store) currentLevelKey() string            { return s.prefix + "CurrentLevel" }

// getter is the read side shared by the client and a watched transaction.
type getter interface {
	MGet(ctx context.Context, keys ...string) *goredis.SliceCmd
}

func (s *Store) bestKeys(levelID string) []string {
	return []string{s.bestScoreKey(levelID), s.bestTimeKey(levelID), s.updatedAtKey(levelID)}
}

func (s *Store) totalsKeys() []string {
	return []string{s.highScoreKey(), s.totalBestTimeKey(), s.totalGamesKey()}
}

// GetBest implements store.ResultStore.
func (s *Store) GetBest(ctx context.Context, levelID string) (*domain.BestResult, error) {
	best, found, err := s.readBest(ctx, s.client, levelID)
	if err != nil {
		return nil, store.NewStoreError("best_result", "get", "read failed", err)
	}
	if !found {
		return nil, store.ErrBestResultNotFound
	}
	return best, nil
}

// SaveBest implements store.ResultStore.
func (s *Store) SaveBest(ctx context.Context, best *domain.BestResult) error {
	if err := best.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		s.writeBest(ctx, pipe, best)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save best result",
			slog.String("level_id", best.LevelID),
			slog.String("error", err.Error()))
		return store.NewStoreError("best_result", "save", "write failed", err)
	}
	return nil
}

// GetTotals implements store.ResultStore.
func (s *Store) GetTotals(ctx context.Context) (*domain.Totals, error) {
	totals, err := s.readTotals(ctx, s.client)
	if err != nil {
		return nil, store.NewStoreError("totals", "get", "read failed", err)
	}
	return totals, nil
}

// Update implements store.ResultStore. It watches the level and totals
// keys and retries when another client modifies them before EXEC.
func (s *Store) Update(ctx context.Context, levelID string, fn store.UpdateFn) error {
	if levelID == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyLevelID)
	}

	txf := func(tx *goredis.Tx) error {
		best, found, err := s.readBest(ctx, tx, levelID)
		if err != nil {
			return store.NewStoreError("best_result", "update", "read failed", err)
		}
		if !found {
			fresh := domain.NewBestResult(levelID)
			best = &fresh
		}
		totals, err := s.readTotals(ctx, tx)
		if err != nil {
			return store.NewStoreError("totals", "update", "read failed", err)
		}

		if err := fn(best, totals); err != nil {
			return err
		}
		if err := best.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			s.writeBest(ctx, pipe, best)
			s.writeTotals(ctx, pipe, totals)
			return nil
		})
		return err
	}

	keys := append(s.bestKeys(levelID), s.totalsKeys()...)
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, keys...)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
		s.logger.DebugContext(ctx, "optimistic transaction conflict, retrying",
			slog.String("level_id", levelID),
			slog.Int("attempt", attempt+1))
	}
	return fmt.Errorf("%w: update of %q kept conflicting", store.ErrTransactionFailed, levelID)
}

// GetCurrentLevel implements store.ResultStore.
func (s *Store) GetCurrentLevel(ctx context.Context) (string, error) {
	levelID, err := s.client.Get(ctx, s.currentLevelKey()).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", store.NewStoreError("current_level", "get", "read failed", err)
	}
	return levelID, nil
}

// SetCurrentLevel implements store.ResultStore.
func (s *Store) SetCurrentLevel(ctx context.Context, levelID string) error {
	if err := s.client.Set(ctx, s.currentLevelKey(), levelID, 0).Err(); err != nil {
		return store.NewStoreError("current_level", "set", "write failed", err)
	}
	return nil
}

// Reset implements store.ResultStore. It deletes every key under the
// store's prefix.
func (s *Store) Reset(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return store.NewStoreError("results", "reset", "scan failed", err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return store.NewStoreError("results", "reset", "delete failed", err)
		}
	}
	s.logger.InfoContext(ctx, "reset all results", slog.Int("keys", len(keys)))
	return nil
}

func (s *Store) readBest(ctx context.Context, c getter, levelID string) (*domain.BestResult, bool, error) {
	vals, err := c.MGet(ctx, s.bestKeys(levelID)...).Result()
	if err != nil {
		return nil, false, err
	}
	if vals[0] == nil {
		return nil, false, nil
	}

	best := domain.BestResult{LevelID: levelID}
	if best.BestScore, err = parseInt(vals[0]); err != nil {
		return nil, false, err
	}
	if vals[1] != nil {
		ns, err := parseInt(vals[1])
		if err != nil {
			return nil, false, err
		}
		best.BestTime, best.HasTime = time.Duration(ns), true
	}
	if vals[2] != nil {
		ms, err := parseInt(vals[2])
		if err != nil {
			return nil, false, err
		}
		best.UpdatedAt = time.UnixMilli(int64(ms)).UTC()
	}
	return &best, true, nil
}

func (s *Store) writeBest(ctx context.Context, pipe goredis.Pipeliner, best *domain.BestResult) {
	pipe.Set(ctx, s.bestScoreKey(best.LevelID), best.BestScore, 0)
	if best.HasTime {
		pipe.Set(ctx, s.bestTimeKey(best.LevelID), int64(best.BestTime), 0)
	} else {
		pipe.Del(ctx, s.bestTimeKey(best.LevelID))
	}
	pipe.Set(ctx, s.updatedAtKey(best.LevelID), s.now().UTC().UnixMilli(), 0)
}

func (s *Store) readTotals(ctx context.Context, c getter) (*domain.Totals, error) {
	vals, err := c.MGet(ctx, s.totalsKeys()...).Result()
	if err != nil {
		return nil, err
	}

	var totals domain.Totals
	if vals[0] != nil {
		if totals.HighScore, err = parseInt(vals[0]); err != nil {
			return nil, err
		}
	}
	if vals[1] != nil {
		ns, err := parseInt(vals[1])
		if err != nil {
			return nil, err
		}
		totals.BestTime, totals.HasBestTime = time.Duration(ns), true
	}
	if vals[2] != nil {
		if totals.TotalGames, err = parseInt(vals[2]); err != nil {
			return nil, err
		}
	}
	return &totals, nil
}

func (s *Store) writeTotals(ctx context.Context, pipe goredis.Pipeliner, totals *domain.Totals) {
	pipe.Set(ctx, s.highScoreKey(), totals.HighScore, 0)
	if totals.HasBestTime {
		pipe.Set(ctx, s.totalBestTimeKey(), int64(totals.BestTime), 0)
	} else {
		pipe.Del(ctx, s.totalBestTimeKey())
	}
	pipe.Set(ctx, s.totalGamesKey(), totals.TotalGames, 0)
}

// parseInt decodes an MGET value. Redis returns strings for stored integers.
func parseInt(v interface{}) (int, error) {
	str, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected redis value type %T", v)
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", str, err)
	}
	return n, nil
}
