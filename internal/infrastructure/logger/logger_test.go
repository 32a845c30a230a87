package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestNewLogger(t *testing.T) {
	log, err := New(&Config{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		log, err := NewForEnvironment(env)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
