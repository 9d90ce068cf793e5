// Package memory provides an in-process implementation of store.ResultStore.
// It is the default backend and the one used by tests that do not need a
// database.
package memory
