package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("job description extracted", "chars", 120)
	logger.Debug("hidden")

	assert.Contains(t, stderr.String(), "job description extracted")
	assert.NotContains(t, stderr.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "job description extracted", record["msg"])
	assert.EqualValues(t, 120, record["chars"])
	assert.NotEmpty(t, record["session"])
}

func TestSessionLog_NothingWrittenBeforeAttach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	var stderr bytes.Buffer

	log := NewSessionLog(&stderr, slog.LevelDebug, slog.LevelWarn)
	log.Logger.Info("scrape started")
	log.Logger.Warn("retrying output directory creation")
	require.NoError(t, log.Close())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, log.Attached())
	assert.NotContains(t, stderr.String(), "scrape started")
	assert.Contains(t, stderr.String(), "retrying output directory creation")
}

func TestSessionLog_AttachFlushesHeldRecords(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, SessionLogName)

	log := NewSessionLog(io.Discard, slog.LevelDebug, slog.LevelError)
	log.Logger.Debug("rendered HTML captured", "bytes", 42)
	require.NoError(t, log.Attach(logFile))
	require.NoError(t, log.Attach(logFile))
	assert.True(t, log.Attached())
	log.Logger.Info("session completed")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"rendered HTML captured"`)
	assert.Contains(t, lines[1], `"msg":"session completed"`)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, first["session"], second["session"])
}

func TestSessionLog_AttachMissingDir(t *testing.T) {
	log := NewSessionLog(io.Discard, slog.LevelInfo, slog.LevelError)
	err := log.Attach(filepath.Join(t.TempDir(), "missing", SessionLogName))
	assert.Error(t, err)
	assert.False(t, log.Attached())
}
