package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing our code
// to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullDuration encodes an optional duration as nullable nanoseconds.
func NullDuration(d time.Duration, valid bool) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(d), Valid: valid}
}

// DurationFromNull decodes nullable nanoseconds written by NullDuration.
func DurationFromNull(n sql.NullInt64) (time.Duration, bool) {
	if !n.Valid {
		return 0, false
	}
	return time.Duration(n.Int64), true
}
