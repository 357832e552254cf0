package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{" warn ", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LogLevelFromString(tt.input))
		})
	}
}

func TestLeveledLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn, &buf)

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "WARN: warn 3")
	assert.Contains(t, out, "ERROR: error 4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLeveledLogger_SetLevelAndOutput(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(LogLevelError, &first)

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetOutput(&second)
	logger.Debug("hello")

	assert.Empty(t, first.String())
	assert.Equal(t, "DEBUG: hello\n", second.String())
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	SetLogger(NewLogger(LogLevelInfo, &buf))
	SetLogger(nil) // ignored

	GetLogger().Info("via global")
	assert.Contains(t, buf.String(), "INFO: via global")

	assert.Equal(t, GetLogger(), OrDefault(nil))
	nop := NopLogger()
	assert.Equal(t, nop, OrDefault(nop))
}
