package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := context.WithValue(context.Background(), RunIDKey, "run-1")
	ctx = context.WithValue(ctx, MTypeKey, "numpy2D")
	ctx = context.WithValue(ctx, SciTypeKey, "Table")

	WithContext(ctx).Info("converted")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "numpy2D", fields["mtype"])
	assert.Equal(t, "Table", fields["scitype"])
}

func TestGetFallsBackToDefault(t *testing.T) {
	Set(nil)
	t.Cleanup(func() { Set(nil) })

	assert.NotNil(t, Get())
}
