package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"error", ERROR},
		{"bogus", INFO},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestComponentLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(&buf, "debug"))

	log := NewComponentLogger("tray").WithField("tray_id", "abc")
	log.Info("registered %d", 7)
	log.ErrorWithContext(errors.New("boom"), "removing %s", "slot")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "tray", lines[0]["component"])
	assert.Equal(t, "abc", lines[0]["tray_id"])
	assert.Equal(t, "registered 7", lines[0]["message"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
	assert.Equal(t, "removing slot", lines[1]["message"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(&buf, "warn"))

	Debug("hidden")
	Info("hidden")
	Warn("shown %s", "warn")
	Error("shown %s", "error")
	ErrorWithContext(errors.New("x"), "shown context")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "warn", lines[0]["level"])
}
