package round

import (
	"context"
	"log/slog"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/domain/shuffle"
	"github.com/phrazzld/pairmatch/internal/events"
)

// SoundSink receives the named events fired at state transitions.
// Implementations must not call back into the Engine.
type SoundSink interface {
	PlaySound(ctx context.Context, sound events.Sound)
}

// PersistenceGateway records the result of a won round.
type PersistenceGateway interface {
	// RecordResult stores result against levelID, keeping only the fields
	// that better the stored best.
	RecordResult(ctx context.Context, levelID string, result domain.RoundResult) error
}

// SoundSinkFunc adapts a function to SoundSink.
type SoundSinkFunc func(ctx context.Context, sound events.Sound)

// PlaySound implements SoundSink.
func (f SoundSinkFunc) PlaySound(ctx context.Context, sound events.Sound) {
	f(ctx, sound)
}

type nopSink struct{}

func (nopSink) PlaySound(context.Context, events.Sound) {}

type nopGateway struct{}

func (nopGateway) RecordResult(context.Context, string, domain.RoundResult) error { return nil }

// Option configures an Engine.
type Option func(*Engine)

// WithSoundSink sets the sink that receives sound events.
// A nil sink discards them.
func WithSoundSink(sink SoundSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithGateway sets the gateway notified when a round is won.
func WithGateway(gateway PersistenceGateway) Option {
	return func(e *Engine) {
		if gateway != nil {
			e.gateway = gateway
		}
	}
}

// WithShuffler sets the shuffler used to deal decks. Without one, decks
// are shuffled from the process-wide random source.
func WithShuffler(s *shuffle.Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffler = s
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
