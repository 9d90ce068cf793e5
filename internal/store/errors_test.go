package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrBestResultNotFound", err: ErrBestResultNotFound, expected: true},
		{
			name:     "wrapped ErrBestResultNotFound",
			err:      fmt.Errorf("level select: %w", ErrBestResultNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping not found",
			err:      NewStoreError("best_result", "get", "missing", ErrBestResultNotFound),
			expected: true,
		},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		underlying := errors.New("connection reset")
		err := NewStoreError("totals", "update", "write failed", underlying)

		assert.Equal(t, "update operation on totals failed: write failed: connection reset", err.Error())
		assert.ErrorIs(t, err, underlying)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "totals", storeErr.Entity)
		assert.Equal(t, "update", storeErr.Operation)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := &StoreError{Entity: "best_result", Operation: "save", Message: "validation failed"}
		assert.Equal(t, "save operation on best_result failed: validation failed", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
