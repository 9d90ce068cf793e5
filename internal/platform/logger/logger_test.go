package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/pairmatch/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"upper case info", "INFO", slog.LevelInfo, true},
		{"warn", "warn", slog.LevelWarn, true},
		{"warning alias", "warning", slog.LevelWarn, true},
		{"error with spaces", "  error ", slog.LevelError, true},
		{"invalid", "verbose", slog.LevelInfo, false},
		{"empty", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	log := logger.New(logger.LoggerConfig{Level: "warn"}, buf)

	log.Info("hidden")
	log.Warn("shown", slog.Int("pairs", 8))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, float64(8), entries[0]["pairs"])
}

func TestNewInvalidLevelWarns(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	log := logger.New(logger.LoggerConfig{Level: "chatty"}, buf)

	logger.AssertLogContains(t, buf, "invalid log level configured")
	logger.AssertLogField(t, buf, "configured_level", "chatty")

	buf.Reset()
	log.Debug("below info")
	assert.Empty(t, buf.String())
}

func TestSetupSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	log, err := logger.Setup(logger.LoggerConfig{Level: "error"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Same(t, log, slog.Default())
}

func TestContextHelpers(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))

		fallback, _ := logger.GetTestLogger(t)
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
		//nolint:staticcheck // nil context is handled explicitly
		assert.Same(t, fallback, logger.FromContextOrDefault(nil, fallback))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		log, _ := logger.GetTestLogger(t)
		ctx := logger.WithLogger(context.Background(), log)
		assert.Same(t, log, logger.FromContext(ctx))
	})

	t.Run("nil logger panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})

	t.Run("round and migration ids are attached", func(t *testing.T) {
		ctx, buf := logger.NewTestContext(t)
		ctx = logger.WithRoundID(ctx, "round-123")
		ctx = logger.WithMigrationID(ctx, "mig-9")

		logger.FromContext(ctx).Info("tagged")

		logger.AssertLogField(t, buf, "round_id", "round-123")
		logger.AssertLogField(t, buf, "migration_id", "mig-9")
	})
}

func TestCaptureLogs(t *testing.T) {
	out := logger.CaptureLogs(t, func(log *slog.Logger) {
		log.Debug("captured at debug")
	})
	assert.Contains(t, out, "captured at debug")
}
