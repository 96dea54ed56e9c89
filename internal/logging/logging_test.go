package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mcqquiz/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quiz.log")
	logger, closeFn, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1}, nil)
	require.NoError(t, err)

	logger.Named("engine").Info("session started")
	logger.Debug("filtered out")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "engine", entry["logger"])
	assert.Equal(t, "session started", entry["msg"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LogConfig{Level: "debug", Disabled: true}, &buf)
	require.NoError(t, err)

	logger.Debug("listening")
	require.NoError(t, closeFn())
	assert.Contains(t, buf.String(), "listening")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNew_DisabledIsNop(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{Level: "info", Disabled: true}, nil)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0))
	assert.NoError(t, closeFn())
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
