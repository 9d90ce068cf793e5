// Package sqlite implements store.ResultStore on a local SQLite file using
// the pure-Go modernc.org/sqlite driver. Schema changes are embedded goose
// migrations applied by Open.
package sqlite
