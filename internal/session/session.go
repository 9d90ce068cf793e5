package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/pairmatch/internal/config"
	"github.com/phrazzld/pairmatch/internal/deck"
	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/domain/shuffle"
	"github.com/phrazzld/pairmatch/internal/round"
)

// ErrUnknownLevel is returned when a level id is not in the menu.
var ErrUnknownLevel = errors.New("unknown level")

// Results is the slice of the result service a session uses.
type Results interface {
	round.PersistenceGateway
	GetBest(ctx context.Context, levelID string) (domain.BestResult, error)
	CurrentLevel(ctx context.Context) (string, error)
	SaveCurrentLevel(ctx context.Context, levelID string) error
}

// Timing holds presenter delays. The engine never waits on them.
type Timing struct {
	// Preview is how long every card stays visible after StartRound.
	Preview time.Duration
	// RevealDelay is how long a revealed pair stays up before
	// CommitResolution.
	RevealDelay time.Duration
	// Flip is the duration of one card flip animation.
	Flip time.Duration
}

// LevelSummary is one entry of the level menu.
type LevelSummary struct {
	Level domain.LevelConfig
	Label string
	Best  domain.BestResult
}

// Session drives rounds over a fixed level menu.
// Like the engine it wraps, a Session expects a single caller.
type Session struct {
	levels   []domain.LevelConfig
	catalog  *deck.Catalog
	results  Results
	engine   *round.Engine
	timing   Timing
	logger   *slog.Logger
	selected domain.LevelConfig
}

// New creates a session from cfg. The engine is wired to results as its
// persistence gateway; opts are applied after that and may add a sound
// sink or override the shuffler.
func New(cfg *config.Config, results Results, logger *slog.Logger, opts ...round.Option) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", domain.ErrInvalidConfig)
	}
	if results == nil {
		return nil, fmt.Errorf("%w: results are required", domain.ErrInvalidConfig)
	}
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("%w: no levels configured", domain.ErrInvalidConfig)
	}
	for _, level := range cfg.Levels {
		if err := level.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	var shuffler *shuffle.Shuffler
	if cfg.Game.Seed != 0 {
		shuffler = shuffle.New(cfg.Game.Seed)
	}

	engineOpts := []round.Option{
		round.WithGateway(results),
		round.WithShuffler(shuffler),
		round.WithLogger(logger),
	}
	engineOpts = append(engineOpts, opts...)

	levels := make([]domain.LevelConfig, len(cfg.Levels))
	copy(levels, cfg.Levels)

	return &Session{
		levels:  levels,
		catalog: deck.NewCatalog(logger, cfg.Cards...),
		results: results,
		engine:  round.New(engineOpts...),
		timing: Timing{
			Preview:     cfg.Game.PreviewDuration,
			RevealDelay: cfg.Game.RevealDelay,
			Flip:        cfg.Game.FlipDuration,
		},
		logger:   logger.With(slog.String("component", "session")),
		selected: levels[0],
	}, nil
}

// Levels returns a copy of the level menu.
func (s *Session) Levels() []domain.LevelConfig {
	out := make([]domain.LevelConfig, len(s.levels))
	copy(out, s.levels)
	return out
}

// Level looks a level up by id.
func (s *Session) Level(levelID string) (domain.LevelConfig, bool) {
	for _, level := range s.levels {
		if level.LevelID == levelID {
			return level, true
		}
	}
	return domain.LevelConfig{}, false
}

// DefaultLevel is the first level of the menu.
func (s *Session) DefaultLevel() domain.LevelConfig {
	return s.levels[0]
}

// Selected returns the level the next round will be played on.
func (s *Session) Selected() domain.LevelConfig {
	return s.selected
}

// Catalog returns the card catalog rounds are dealt from.
func (s *Session) Catalog() *deck.Catalog {
	return s.catalog
}

// Engine returns the round engine.
func (s *Session) Engine() *round.Engine {
	return s.engine
}

// Timing returns the presenter delays.
func (s *Session) Timing() Timing {
	return s.timing
}

// Menu lists every level with its best result.
func (s *Session) Menu(ctx context.Context) ([]LevelSummary, error) {
	summaries := make([]LevelSummary, 0, len(s.levels))
	for _, level := range s.levels {
		summary, err := s.summarize(ctx, level)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Select makes levelID the level for the next round, saves it as the
// player's current level and returns its menu entry.
func (s *Session) Select(ctx context.Context, levelID string) (LevelSummary, error) {
	level, ok := s.Level(levelID)
	if !ok {
		return LevelSummary{}, fmt.Errorf("%w: %q", ErrUnknownLevel, levelID)
	}
	if err := s.results.SaveCurrentLevel(ctx, levelID); err != nil {
		return LevelSummary{}, fmt.Errorf("save current level: %w", err)
	}
	s.selected = level
	s.logger.InfoContext(ctx, "level selected", slog.String("level_id", levelID))
	return s.summarize(ctx, level)
}

// Resume selects the saved current level. When nothing was saved, or the
// saved level is no longer in the menu, the default level is selected.
func (s *Session) Resume(ctx context.Context) (domain.LevelConfig, error) {
	levelID, err := s.results.CurrentLevel(ctx)
	if err != nil {
		return domain.LevelConfig{}, fmt.Errorf("load current level: %w", err)
	}

	level, ok := s.Level(levelID)
	if !ok {
		if levelID != "" {
			s.logger.WarnContext(ctx, "saved level not in menu, using default",
				slog.String("level_id", levelID))
		}
		level = s.DefaultLevel()
	}
	s.selected = level
	return level, nil
}

// Start deals a new round on the selected level.
func (s *Session) Start(ctx context.Context) error {
	return s.engine.StartRound(ctx, s.selected, s.catalog.All())
}

func (s *Session) summarize(ctx context.Context, level domain.LevelConfig) (LevelSummary, error) {
	best, err := s.results.GetBest(ctx, level.LevelID)
	if err != nil {
		return LevelSummary{}, fmt.Errorf("load best result for %s: %w", level.LevelID, err)
	}
	return LevelSummary{Level: level, Label: level.Label(), Best: best}, nil
}
