// Package events carries the named game events a round emits at its state
// transitions.
//
// The round engine only knows a sound sink; InMemoryEventEmitter is the
// sink used in practice. It stamps each sound into an Event and fans it
// out to registered handlers, so a presenter can map events to audio,
// animation or analytics without the engine knowing which.
//
// The primary components are:
// - Sound: the event names (CardFlip, Match, Mismatch, GameOver, GameStart)
// - Event: a uuid-stamped occurrence of a Sound within a round
// - EventHandler / EventEmitter: interfaces for consuming and publishing events
package events
