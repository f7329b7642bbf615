package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/tasreso/logging"
)

func observed(level zapcore.Level) (*logging.Zap, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logging.Wrap(zap.New(core)), logs
}

func TestZapLevels(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)
	ctx := context.Background()

	log.Debug(ctx, "debug message", map[string]any{"algo": "cn"})
	log.Info(ctx, "info message", nil)
	log.Warn(ctx, "warn message", map[string]any{"point": 3})
	log.Error(ctx, "error message", errors.New("boom"), map[string]any{"h": 1.})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug message", entries[0].Message)
	assert.Equal(t, "cn", entries[0].ContextMap()["algo"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Empty(t, entries[1].Context)
	assert.Equal(t, int64(3), entries[2].ContextMap()["point"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
	assert.Equal(t, 1., entries[3].ContextMap()["h"])
}

func TestZapFieldOrder(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)
	log.Info(context.Background(), "sorted", map[string]any{"c": 1, "a": 2, "b": 3})

	entries := logs.All()
	require.Len(t, entries, 1)
	var keys []string
	for _, f := range entries[0].Context {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestZapFiltersBelowLevel(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel)
	log.Debug(context.Background(), "dropped", nil)
	log.Info(context.Background(), "dropped", nil)
	log.Warn(context.Background(), "kept", nil)
	assert.Equal(t, 1, logs.Len())
}

func TestNewZap(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		l, err := logging.NewZap(lvl)
		require.NoError(t, err, lvl)
		require.NotNil(t, l)
	}
	_, err := logging.NewZap("loud")
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	log := logging.Nop()
	assert.NotPanics(t, func() {
		log.Error(context.Background(), "nothing", errors.New("x"), map[string]any{"k": "v"})
	})
	assert.NotPanics(t, func() { logging.Wrap(nil).Info(context.Background(), "nil", nil) })
}
