package round

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/phrazzld/pairmatch/internal/deck"
	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/domain/combo"
	"github.com/phrazzld/pairmatch/internal/domain/shuffle"
	"github.com/phrazzld/pairmatch/internal/events"
	"github.com/phrazzld/pairmatch/internal/platform/logger"
)

// Machine event names.
const (
	eventPreviewComplete = "preview_complete"
	eventPairRevealed    = "pair_revealed"
	eventResolve         = "resolve"
	eventWin             = "win"
)

// phaseNone is the machine state before the first StartRound.
const phaseNone domain.Phase = ""

// Outcome describes a pending pair once the second card is revealed.
// It is computed synchronously so the presenter can animate the result
// before calling CommitResolution.
type Outcome struct {
	First         int  `json:"first"`
	Second        int  `json:"second"`
	Match         bool `json:"match"`
	PointsIfMatch int  `json:"points_if_match"`
}

// State is a read-only snapshot of a round.
type State struct {
	RoundID uuid.UUID             `json:"round_id"`
	Level   domain.LevelConfig    `json:"level"`
	Phase   domain.Phase          `json:"phase"`
	Cards   []domain.CardInstance `json:"cards"`
	Pending []int                 `json:"pending"`
	Score   int                   `json:"score"`
	Combo   domain.Combo          `json:"combo"`
	Elapsed time.Duration         `json:"elapsed"`
}

// Engine drives a single round of the game.
type Engine struct {
	machine  *fsm.FSM
	sink     SoundSink
	gateway  PersistenceGateway
	shuffler *shuffle.Shuffler
	logger   *slog.Logger

	roundID uuid.UUID
	level   domain.LevelConfig
	cards   []domain.CardInstance
	pending []int
	outcome *Outcome
	score   int
	combo   domain.Combo
	elapsed time.Duration
}

// New creates an Engine. Collaborators not supplied through options are
// replaced by no-op implementations. The engine accepts no requests until
// StartRound is called.
func New(opts ...Option) *Engine {
	e := &Engine{
		sink:    nopSink{},
		gateway: nopGateway{},
		logger:  slog.Default(),
		combo:   domain.NewCombo(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "round_engine"))
	e.machine = newMachine()
	return e
}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(phaseNone),
		fsm.Events{
			{
				Name: eventPreviewComplete,
				Src:  []string{string(domain.PhasePreview)},
				Dst:  string(domain.PhaseIdle),
			},
			{
				Name: eventPairRevealed,
				Src:  []string{string(domain.PhaseIdle)},
				Dst:  string(domain.PhaseResolving),
			},
			{
				Name: eventResolve,
				Src:  []string{string(domain.PhaseResolving)},
				Dst:  string(domain.PhaseIdle),
			},
			{
				Name: eventWin,
				Src:  []string{string(domain.PhaseResolving)},
				Dst:  string(domain.PhaseWon),
			},
		},
		fsm.Callbacks{},
	)
}

// fire runs a machine event, mapping a refused transition to
// domain.ErrRejected.
func (e *Engine) fire(ctx context.Context, event string) error {
	if !e.machine.Can(event) {
		return fmt.Errorf("%w: %s not allowed in phase %q", domain.ErrRejected, event, e.machine.Current())
	}
	if err := e.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRejected, event, err)
	}
	return nil
}

// StartRound deals a fresh deck for cfg from pool and enters the Preview
// phase. It may be called in any phase; the current round is discarded.
//
// Returns an error wrapping domain.ErrInvalidConfig if cfg or pool cannot
// produce a deck. The engine is left unchanged in that case.
func (e *Engine) StartRound(ctx context.Context, cfg domain.LevelConfig, pool []domain.CardIdentity) error {
	cards, err := deck.ForLevel(cfg, pool, e.shuffler)
	if err != nil {
		e.logger.WarnContext(ctx, "rejected round configuration",
			slog.String("level_id", cfg.LevelID),
			slog.String("error", err.Error()))
		return err
	}

	e.roundID = uuid.New()
	e.level = cfg
	e.cards = cards
	e.pending = e.pending[:0]
	e.outcome = nil
	e.score = 0
	e.combo = domain.NewCombo()
	e.elapsed = 0
	e.machine.SetState(string(domain.PhasePreview))

	ctx = e.roundContext(ctx)
	logger.FromContext(ctx).DebugContext(ctx, "round started",
		slog.String("level_id", cfg.LevelID),
		slog.Int("cards", len(cards)))

	e.emit(ctx, events.SoundGameStart)
	return nil
}

// PreviewComplete ends the preview. It is legal only in PhasePreview;
// any other phase yields domain.ErrRejected without a state change.
func (e *Engine) PreviewComplete(ctx context.Context) error {
	return e.fire(ctx, eventPreviewComplete)
}

// RequestReveal turns the card with instanceID face up. It is legal only
// in PhaseIdle, for a face-down unmatched card, while fewer than two
// cards are pending.
//
// When the reveal completes a pair the engine enters PhaseResolving and
// returns the Outcome of that pair; otherwise the outcome is nil.
// Illegal requests return an error wrapping domain.ErrRejected; unknown
// ids return domain.ErrUnknownCard.
func (e *Engine) RequestReveal(ctx context.Context, instanceID int) (*Outcome, error) {
	if e.Phase() != domain.PhaseIdle {
		return nil, fmt.Errorf("%w: reveal not allowed in phase %q", domain.ErrRejected, e.Phase())
	}
	if instanceID < 0 || instanceID >= len(e.cards) {
		return nil, fmt.Errorf("%w: instance %d", domain.ErrUnknownCard, instanceID)
	}
	if len(e.pending) >= 2 {
		return nil, fmt.Errorf("%w: a pair is already pending", domain.ErrRejected)
	}

	card := &e.cards[instanceID]
	if !card.Revealable() {
		if card.Matched {
			return nil, fmt.Errorf("%w: instance %d is already matched", domain.ErrRejected, instanceID)
		}
		return nil, fmt.Errorf("%w: instance %d is already face up", domain.ErrRejected, instanceID)
	}

	card.Face = domain.FaceUp
	e.pending = append(e.pending, instanceID)
	e.emit(ctx, events.SoundCardFlip)

	if len(e.pending) < 2 {
		return nil, nil
	}

	first, second := e.cards[e.pending[0]], e.cards[e.pending[1]]
	outcome := &Outcome{
		First:  first.InstanceID,
		Second: second.InstanceID,
		Match:  first.Pairs(second),
	}
	if outcome.Match {
		outcome.PointsIfMatch = combo.Award(e.combo)
	}

	if err := e.fire(ctx, eventPairRevealed); err != nil {
		card.Face = domain.FaceDown
		e.pending = e.pending[:1]
		return nil, err
	}
	e.outcome = outcome

	out := *outcome
	return &out, nil
}

// CommitResolution applies the outcome of the pending pair. It is legal
// only in PhaseResolving.
//
// A match marks both cards matched, extends the combo and adds the award
// to the score. A mismatch turns both cards face down and resets the
// combo. When the last pair is matched the round enters PhaseWon, the
// result is handed to the gateway and returned; otherwise the returned
// result is nil. Gateway failures are logged and never returned.
func (e *Engine) CommitResolution(ctx context.Context) (*domain.RoundResult, error) {
	if e.Phase() != domain.PhaseResolving || e.outcome == nil {
		return nil, fmt.Errorf("%w: commit not allowed in phase %q", domain.ErrRejected, e.Phase())
	}

	outcome := e.outcome
	first, second := &e.cards[outcome.First], &e.cards[outcome.Second]

	if !outcome.Match {
		first.Face = domain.FaceDown
		second.Face = domain.FaceDown
		e.combo = combo.Miss(e.combo)
		e.clearPending()
		if err := e.fire(ctx, eventResolve); err != nil {
			return nil, err
		}
		e.emit(ctx, events.SoundMismatch)
		return nil, nil
	}

	first.Matched = true
	second.Matched = true
	e.score += combo.Award(e.combo)
	e.combo = combo.Hit(e.combo)
	e.clearPending()

	if !e.allMatched() {
		if err := e.fire(ctx, eventResolve); err != nil {
			return nil, err
		}
		e.emit(ctx, events.SoundMatch)
		return nil, nil
	}

	if err := e.fire(ctx, eventWin); err != nil {
		return nil, err
	}
	e.emit(ctx, events.SoundMatch)
	e.emit(ctx, events.SoundGameOver)

	result := domain.RoundResult{
		RoundID:  e.roundID,
		LevelID:  e.level.LevelID,
		Score:    e.score,
		Elapsed:  e.elapsed,
		MaxCombo: e.combo.Max,
	}

	ctx = e.roundContext(ctx)
	log := logger.FromContext(ctx)
	log.InfoContext(ctx, "round won",
		slog.String("level_id", result.LevelID),
		slog.Int("score", result.Score),
		slog.Duration("elapsed", result.Elapsed),
		slog.Int("max_combo", result.MaxCombo))

	if err := e.gateway.RecordResult(ctx, e.level.LevelID, result); err != nil {
		log.ErrorContext(ctx, "failed to record round result",
			slog.String("level_id", result.LevelID),
			slog.String("error", err.Error()))
	}

	return &result, nil
}

// Tick advances the round clock by delta while the round is being played
// (PhaseIdle or PhaseResolving). Negative deltas are ignored.
func (e *Engine) Tick(delta time.Duration) {
	if delta <= 0 {
		return
	}
	switch e.Phase() {
	case domain.PhaseIdle, domain.PhaseResolving:
		e.elapsed += delta
	}
}

func (e *Engine) clearPending() {
	e.pending = e.pending[:0]
	e.outcome = nil
}

func (e *Engine) allMatched() bool {
	for _, card := range e.cards {
		if !card.Matched {
			return false
		}
	}
	return true
}

// roundContext tags ctx with the current round id for sound handlers and
// carries the engine logger with the same id.
func (e *Engine) roundContext(ctx context.Context) context.Context {
	if events.RoundIDFromContext(ctx) == e.roundID {
		return ctx
	}
	ctx = logger.WithRoundID(logger.WithLogger(ctx, e.logger), e.roundID.String())
	return events.WithRoundID(ctx, e.roundID)
}

func (e *Engine) emit(ctx context.Context, sound events.Sound) {
	e.sink.PlaySound(e.roundContext(ctx), sound)
}

// Phase returns the current phase, or the empty phase before the first
// round is started.
func (e *Engine) Phase() domain.Phase {
	return domain.Phase(e.machine.Current())
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Combo returns the current combo state.
func (e *Engine) Combo() domain.Combo { return e.combo }

// Elapsed returns the accumulated play time.
func (e *Engine) Elapsed() time.Duration { return e.elapsed }

// Level returns the configuration of the current round.
func (e *Engine) Level() domain.LevelConfig { return e.level }

// RoundID returns the id of the current round.
func (e *Engine) RoundID() uuid.UUID { return e.roundID }

// Cards returns a copy of the cards in grid order.
func (e *Engine) Cards() []domain.CardInstance {
	out := make([]domain.CardInstance, len(e.cards))
	copy(out, e.cards)
	return out
}

// Pending returns the instance ids of revealed, unmatched cards.
// It never holds more than two ids.
func (e *Engine) Pending() []int {
	out := make([]int, len(e.pending))
	copy(out, e.pending)
	return out
}

// Snapshot returns a copy of the whole round state.
func (e *Engine) Snapshot() State {
	return State{
		RoundID: e.roundID,
		Level:   e.level,
		Phase:   e.Phase(),
		Cards:   e.Cards(),
		Pending: e.Pending(),
		Score:   e.score,
		Combo:   e.combo,
		Elapsed: e.elapsed,
	}
}
