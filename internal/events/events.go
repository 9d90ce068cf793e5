package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sound names an event emitted at a round state transition.
type Sound string

// Sounds fired by the round engine.
const (
	SoundCardFlip  Sound = "CardFlip"
	SoundMatch     Sound = "Match"
	SoundMismatch  Sound = "Mismatch"
	SoundGameOver  Sound = "GameOver"
	SoundGameStart Sound = "GameStart"
)

// AllSounds lists every sound the engine may emit.
var AllSounds = []Sound{SoundCardFlip, SoundMatch, SoundMismatch, SoundGameOver, SoundGameStart}

// Event represents one occurrence of a Sound.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Sound names the transition that fired the event
	Sound Sound `json:"sound"`

	// RoundID identifies the round, uuid.Nil when unknown
	RoundID uuid.UUID `json:"round_id"`

	// Payload contains event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event for sound in round roundID. A nil payload
// leaves Payload empty.
func NewEvent(sound Sound, roundID uuid.UUID, payload interface{}) (*Event, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &Event{
		ID:        uuid.New(),
		Sound:     sound,
		RoundID:   roundID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

type roundIDKey struct{}

// WithRoundID returns a context carrying the id of the round that is
// emitting events.
func WithRoundID(ctx context.Context, roundID uuid.UUID) context.Context {
	return context.WithValue(ctx, roundIDKey{}, roundID)
}

// RoundIDFromContext returns the round id stored by WithRoundID, or
// uuid.Nil.
func RoundIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if id, ok := ctx.Value(roundIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
