package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/pairmatch/internal/platform/postgres"
	"github.com/phrazzld/pairmatch/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "best_results",
		ColumnName:     "best_score",
		ConstraintName: "best_results_best_score_check",
	}
}

func TestConstraintPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		unique   bool
		check    bool
		notNull  bool
		notFound bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("generic error")},
		{name: "unique violation", err: newPgError("23505"), unique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), unique: true},
		{name: "check violation", err: newPgError("23514"), check: true},
		{name: "not null violation", err: newPgError("23502"), notNull: true},
		{name: "no rows", err: sql.ErrNoRows, notFound: true},
		{name: "store not found", err: store.ErrBestResultNotFound, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.check, postgres.IsCheckConstraintViolation(tt.err))
			assert.Equal(t, tt.notNull, postgres.IsNotNullViolation(tt.err))
			assert.Equal(t, tt.notFound, postgres.IsNotFoundError(tt.err))
		})
	}
}

// TestMapError tests the MapError function
func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("generic error")

	tests := []struct {
		name        string
		err         error
		expectedErr error
		contains    string
	}{
		{name: "no rows", err: sql.ErrNoRows, expectedErr: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), expectedErr: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), expectedErr: store.ErrInvalidEntity, contains: "foreign key"},
		{
			name:        "check violation",
			err:         newPgError("23514"),
			expectedErr: store.ErrInvalidEntity,
			contains:    "best_results_best_score_check",
		},
		{name: "not null violation", err: newPgError("23502"), expectedErr: store.ErrInvalidEntity, contains: "best_score"},
		{name: "serialization failure", err: newPgError("40001"), expectedErr: store.ErrTransactionFailed},
		{name: "unmapped pg error", err: newPgError("42P01"), expectedErr: nil},
		{name: "generic error", err: generic, expectedErr: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := postgres.MapError(tt.err)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, mapped, tt.expectedErr)
			} else {
				assert.Equal(t, tt.err, mapped)
			}
			if tt.contains != "" {
				assert.Contains(t, mapped.Error(), tt.contains)
			}
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}
