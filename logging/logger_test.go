package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/linesmerrill/dispatch-console/logging"
)

func TestNewDevelopmentLogsDebug(t *testing.T) {
	l, err := logging.New("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewProductionSkipsDebug(t *testing.T) {
	l, err := logging.New("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewUnknownFallsBackToExample(t *testing.T) {
	l, err := logging.New("")
	assert.NoError(t, err)
	assert.NotNil(t, l)
}
