// Package round implements the memory-matching round state machine.
//
// An Engine owns the cards of one round and moves through the phases
// Preview, Idle, Resolving and Won. Every transition is driven by the
// caller: the presenter calls PreviewComplete once its preview animation
// ends and CommitResolution after its own reveal delay. Tick advances the
// elapsed-time clock. The engine never sleeps, starts goroutines or reads
// the wall clock.
//
// Engine is not safe for concurrent use. It assumes a single logical
// caller driving one round at a time.
package round
