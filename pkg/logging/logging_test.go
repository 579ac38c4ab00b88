package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"info", FormatJSON, zapcore.InfoLevel},
		{"debug", FormatConsole, zapcore.DebugLevel},
		{"warn", "", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, lvl, err := New(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Equal(t, tt.want, lvl.Level())
			assert.True(t, logger.Core().Enabled(tt.want))
		})
	}
}

func TestNewAtomicLevel(t *testing.T) {
	logger, lvl, err := New("info", FormatJSON)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	lvl.SetLevel(zapcore.DebugLevel)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewErrors(t *testing.T) {
	_, _, err := New("loud", FormatJSON)
	assert.Error(t, err)

	_, _, err = New("info", "xml")
	assert.ErrorContains(t, err, "unknown format")
}
