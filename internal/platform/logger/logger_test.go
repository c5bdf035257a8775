package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskpilot/internal/platform/logger"
)

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		stored := slog.Default().With("component", "test")
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.Default().With("component", "fallback")

	t.Run("prefers context logger", func(t *testing.T) {
		stored := slog.Default().With("component", "stored")
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses fallback when context empty", func(t *testing.T) {
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("uses default when both empty", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})
}

func TestSetupInvalidLevel(t *testing.T) {
	log := logger.Setup("not-a-level")
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}
