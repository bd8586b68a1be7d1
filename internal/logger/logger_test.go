package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDebugLevel(t *testing.T) {
	l, err := New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("  héllo  ", 10))
	assert.Equal(t, "hél...", Truncate("héllo", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}
