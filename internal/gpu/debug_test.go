package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleDebugMessageLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	HandleDebugMessage(log, DebugMessage{ID: 1, Severity: SeverityMedium, Text: "bad enum"})
	HandleDebugMessage(log, DebugMessage{ID: 2, Severity: SeverityLow, Text: "slow path"})
	HandleDebugMessage(log, DebugMessage{ID: 3, Severity: SeverityNotification, Text: "buffer info"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Contains(t, entries[0].Message, "bad enum")
}

func TestHandleDebugMessageCriticalPanics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	assert.Panics(t, func() {
		HandleDebugMessage(log, DebugMessage{ID: 9, Severity: SeverityHigh, Text: "context lost"})
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.PanicLevel, logs.All()[0].Level)
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(Float3, Float4, Float2, Float, Float)
	assert.Equal(t, int32(44), l.Stride)
	assert.Equal(t, 11, l.Floats())
	assert.Equal(t, int32(12), l.Elements[1].Offset)
	assert.Equal(t, int32(28), l.Elements[2].Offset)
	assert.Equal(t, int32(40), l.Elements[4].Offset)
}
