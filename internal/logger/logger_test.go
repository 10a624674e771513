package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("isbn", "9780441013593").Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "9780441013593", entry["isbn"])
	assert.Contains(t, entry, "time")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", "json", &buf)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"info"`)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", "console", &buf)
	l.Info().Msg("registered")

	out := buf.String()
	assert.Contains(t, out, "registered")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestNewPGXTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewPGXTracer(New("debug", "json", &buf))

	tracer.Logger.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql":  "select 1",
		"args": []any{"secret"},
		"pid":  uint32(42),
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Query", entry["message"])
	assert.Equal(t, "pgx", entry["component"])
	assert.Equal(t, "select 1", entry["sql"])
	assert.NotContains(t, entry, "args")
	assert.NotContains(t, entry, "pid")
}

func TestNewPGXTracer_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewPGXTracer(New("error", "json", &buf))

	tracer.Logger.Log(context.Background(), tracelog.LogLevelInfo, "Query", nil)
	assert.Empty(t, buf.String())

	tracer.Logger.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"err": "boom"})
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"err":"boom"`)
}
