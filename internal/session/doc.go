// Package session ties the level menu, the card catalog and the round
// engine together. A Session lists levels with their best results,
// remembers the selected level through the result service and starts
// rounds on it. Presenters read Timing for the delays they should wait
// before calling back into the engine.
package session
