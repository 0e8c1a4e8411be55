package monitoring

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "INFO", want: LevelInfo},
		{input: "", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: " error ", want: LevelError},
		{input: "verbose", want: LevelWarn, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestStructuredLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{
		Level:  LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelError))

	logger.Info("hidden")
	logger.Warn("visible", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "key=value")
}

func TestStructuredLogger_ComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LoggerConfig{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    &buf,
		Component: "provider",
		Fields:    map[string]any{"service": "billing"},
	})

	logger.With("request", "r-1").Info("resolved")

	out := buf.String()
	assert.Contains(t, out, "component=provider")
	assert.Contains(t, out, "service=billing")
	assert.Contains(t, out, "request=r-1")
}

func TestStructuredLogger_LogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), "mapper", nil)

	logger.LogOperation(context.Background(), "Encode", 2*time.Millisecond, nil, nil)
	assert.Contains(t, buf.String(), "operation completed")

	buf.Reset()
	logger.LogOperation(context.Background(), "Encode", time.Millisecond, errors.New("bad token"), nil)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "bad token")
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
