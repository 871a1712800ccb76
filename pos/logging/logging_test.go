package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTemporalLogger_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewTemporalLogger(zap.New(core))

	l.Info("Session started", "sessionID", "abc")
	l.With("stage", "open").Warn("Idle", "minutes", 30)
	l.Debug("Signal", "name", "set-quantity")
	l.Error("Export failed", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, "Session started", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["sessionID"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "open", entries[1].ContextMap()["stage"])
	assert.EqualValues(t, 30, entries[1].ContextMap()["minutes"])

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNew(t *testing.T) {
	logger, err := New("pos-test")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
