package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans created by this package.
const tracerName = "github.com/phrazzld/pairmatch/internal/service"

// ResultServiceError wraps errors from the result service with context.
type ResultServiceError struct {
	// Operation is the operation that failed (e.g., "record_result", "get_best")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ResultServiceError.
func (e *ResultServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("result service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("result service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ResultServiceError) Unwrap() error {
	return e.Err
}

// NewResultServiceError creates a new ResultServiceError.
// Store sentinels with a service-level meaning are translated first.
func NewResultServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrInvalidEntity):
		err = fmt.Errorf("%w: %w", ErrInvalidResult, err)
	case errors.Is(err, store.ErrTransactionFailed):
		err = fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return &ResultServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ResultServiceOption configures a ResultService.
type ResultServiceOption func(*ResultService)

// WithTracer sets the tracer used for persistence spans. By default the
// tracer comes from the global otel provider.
func WithTracer(tracer trace.Tracer) ResultServiceOption {
	return func(s *ResultService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// ResultService records won rounds and serves best results.
// It implements round.PersistenceGateway.
type ResultService struct {
	store  store.ResultStore
	logger *slog.Logger
	tracer trace.Tracer
}

// NewResultService creates a new ResultService.
// It returns an error if resultStore is nil.
func NewResultService(
	resultStore store.ResultStore,
	logger *slog.Logger,
	opts ...ResultServiceOption,
) (*ResultService, error) {
	if resultStore == nil {
		return nil, &ResultServiceError{
			Operation: "create_service",
			Message:   "resultStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &ResultService{
		store:  resultStore,
		logger: logger.With("component", "result_service"),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RecordResult folds a won round into the best result of levelID and the
// global totals. Score and time are each overwritten only when bettered;
// TotalGames always increments.
func (s *ResultService) RecordResult(ctx context.Context, levelID string, result domain.RoundResult) error {
	ctx, span := s.tracer.Start(ctx, "ResultService.RecordResult",
		trace.WithAttributes(
			attribute.String("level_id", levelID),
			attribute.String("round_id", result.RoundID.String()),
			attribute.Int("score", result.Score),
			attribute.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
		))
	defer span.End()

	var improved bool
	err := s.store.Update(ctx, levelID, func(best *domain.BestResult, totals *domain.Totals) error {
		improved = best.Apply(result)
		totals.Apply(result)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record result failed")
		s.logger.ErrorContext(ctx, "failed to record round result",
			"error", err,
			"level_id", levelID,
			"round_id", result.RoundID)
		return NewResultServiceError("record_result", "failed to update best result", err)
	}

	span.SetAttributes(attribute.Bool("improved", improved))
	s.logger.InfoContext(ctx, "recorded round result",
		"level_id", levelID,
		"round_id", result.RoundID,
		"score", result.Score,
		"elapsed", result.Elapsed,
		"improved", improved)
	return nil
}

// GetBest returns the best result of levelID. A level with no history
// yields score 0 and no time.
func (s *ResultService) GetBest(ctx context.Context, levelID string) (domain.BestResult, error) {
	ctx, span := s.tracer.Start(ctx, "ResultService.GetBest",
		trace.WithAttributes(attribute.String("level_id", levelID)))
	defer span.End()

	best, err := s.store.GetBest(ctx, levelID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.NewBestResult(levelID), nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "get best failed")
		return domain.BestResult{}, NewResultServiceError("get_best", "failed to read best result", err)
	}
	return *best, nil
}

// SetBest overwrites the best result of best.LevelID.
func (s *ResultService) SetBest(ctx context.Context, best domain.BestResult) error {
	ctx, span := s.tracer.Start(ctx, "ResultService.SetBest",
		trace.WithAttributes(attribute.String("level_id", best.LevelID)))
	defer span.End()

	if err := s.store.SaveBest(ctx, &best); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "set best failed")
		return NewResultServiceError("set_best", "failed to save best result", err)
	}
	return nil
}

// Totals returns the global counters across every level.
func (s *ResultService) Totals(ctx context.Context) (domain.Totals, error) {
	totals, err := s.store.GetTotals(ctx)
	if err != nil {
		return domain.Totals{}, NewResultServiceError("get_totals", "failed to read totals", err)
	}
	return *totals, nil
}

// CurrentLevel returns the level the player last selected, or "" when
// none was saved.
func (s *ResultService) CurrentLevel(ctx context.Context) (string, error) {
	levelID, err := s.store.GetCurrentLevel(ctx)
	if err != nil {
		return "", NewResultServiceError("get_current_level", "failed to read current level", err)
	}
	return levelID, nil
}

// SaveCurrentLevel remembers levelID as the player's current level.
func (s *ResultService) SaveCurrentLevel(ctx context.Context, levelID string) error {
	if levelID == "" {
		return NewResultServiceError("save_current_level", "level id is required", domain.ErrEmptyLevelID)
	}
	if err := s.store.SetCurrentLevel(ctx, levelID); err != nil {
		return NewResultServiceError("save_current_level", "failed to save current level", err)
	}
	return nil
}

// Reset deletes every saved result, the totals and the current level.
func (s *ResultService) Reset(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "ResultService.Reset")
	defer span.End()

	if err := s.store.Reset(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset failed")
		return NewResultServiceError("reset", "failed to reset results", err)
	}
	s.logger.InfoContext(ctx, "reset all results")
	return nil
}
