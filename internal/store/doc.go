// Package store defines the persistence contract for round results.
// Backends live under internal/platform; the game logic depends only on
// the ResultStore interface and the errors declared here, so a flat
// preference store, an embedded database or a server database can be
// swapped without touching the engine.
package store
