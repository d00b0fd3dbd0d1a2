package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbSettings struct {
	Host     string
	Password string
}

func TestNew_JSONRedactsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json", Writer: &buf})
	logger.Debug("connecting", slog.Any("db", dbSettings{Host: "db.local", Password: "hunter2"}))

	out := buf.String()
	assert.Contains(t, out, "db.local")
	assert.NotContains(t, out, "hunter2")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "connecting", rec["msg"])
}

func TestNew_ConsoleRedactsPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "console", Writer: &buf}).With("svc", "test")
	logger.Info("connecting", slog.Any("db", dbSettings{Host: "db.local", Password: "hunter2"}))

	assert.Contains(t, buf.String(), "connecting")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Writer: &buf})
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l := Discard()
	SetDefault(l)
	assert.Same(t, l, Default())
}
