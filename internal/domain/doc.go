// Package domain contains the core entities and value objects of the
// memory-matching game: card identities and instances, level layouts,
// round results and persisted best results. It has no knowledge of
// rendering, audio or storage.
package domain
