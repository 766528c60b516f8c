package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWithContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:          LogLevelDebug,
		Format:         LogFormatJSON,
		Output:         &buf,
		ServiceName:    "tracker",
		ServiceVersion: "1.2.3",
	})

	ctx := WithCorrelationID(WithRequestID(context.Background(), "req-1"), "corr-1")
	logger.InfoContext(ctx, "busy employees computed", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "busy employees computed", entry["msg"])
	assert.Equal(t, "tracker", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "req-1", entry[RequestIDKey])
	assert.Equal(t, "corr-1", entry[CorrelationIDKey])
	assert.Equal(t, float64(3), entry["count"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewLogger_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf, LevelVar: level})

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_WithAttrsKeepsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatText, Output: &buf})

	LogOperation(logger, "important_tasks").InfoContext(WithRequestID(context.Background(), "abc"), "done")

	out := buf.String()
	assert.Contains(t, out, "operation=important_tasks")
	assert.Contains(t, out, "request_id=abc")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, ParseLogLevel(input))
		})
	}
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, RequestIDFromContext(ctx))
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))

	ctx = NewRequestContext(context.Background(), "upstream")
	assert.Equal(t, "upstream", CorrelationIDFromContext(ctx))
	assert.False(t, strings.EqualFold(RequestIDFromContext(ctx), "upstream"))
}
