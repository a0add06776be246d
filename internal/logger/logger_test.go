package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestInit_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Init(&buf, "warn", "json")

	l.Info("dropped")
	l.Warn("token refresh failed", "account_id", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "token refresh failed", line["msg"])
	assert.Equal(t, float64(3), line["account_id"])
}

func TestInit_ConsoleWithoutTerminal(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Init(&buf, "info", "console")
	l.Info("ingested", "posts", 2)

	out := buf.String()
	assert.Contains(t, out, "ingested")
	assert.Contains(t, out, "posts=2")
	assert.NotContains(t, out, "\x1b[")
}
