package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/pairmatch/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrInvalidResult", func(t *testing.T) {
		assert.Equal(t, "invalid result", ErrInvalidResult.Error())
	})

	t.Run("ErrStorageUnavailable", func(t *testing.T) {
		assert.Equal(t, "result storage unavailable", ErrStorageUnavailable.Error())
	})

	t.Run("sentinel errors are different", func(t *testing.T) {
		assert.False(t, errors.Is(ErrInvalidResult, ErrStorageUnavailable))
		assert.False(t, errors.Is(ErrStorageUnavailable, ErrInvalidResult))
	})
}

func TestNewResultServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		expected string
	}{
		{
			name:     "invalid entity",
			err:      fmt.Errorf("%w: negative score", store.ErrInvalidEntity),
			sentinel: ErrInvalidResult,
			expected: "result service set_best failed: bad input: invalid result: invalid entity: negative score",
		},
		{
			name:     "transaction failed",
			err:      store.ErrTransactionFailed,
			sentinel: ErrStorageUnavailable,
			expected: "result service set_best failed: bad input: result storage unavailable: transaction failed",
		},
		{
			name:     "other error",
			err:      errors.New("boom"),
			expected: "result service set_best failed: bad input: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewResultServiceError("set_best", "bad input", tt.err)
			assert.Equal(t, tt.expected, err.Error())
			assert.ErrorIs(t, err, tt.err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}
