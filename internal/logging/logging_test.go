package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"error":   slog.LevelError,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, levelFromString(in), in)
	}
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("item checked", "item", "item001", "status", "in_stock")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "item checked", entry["msg"])
	assert.Equal(t, "item001", entry["item"])
}

func TestNewWriterText(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "debug", "text").Debug("tracing", "component", "runner")

	assert.Contains(t, buf.String(), "msg=tracing")
	assert.Contains(t, buf.String(), "component=runner")
}
