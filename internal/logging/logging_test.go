package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/skyblock-auctions/internal/config"
)

func TestNew_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.LoggingConfig{Level: "chatty"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.Info("Refresh complete")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Refresh complete")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.WithField("page", 3).Debug("Got page")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Got page", entry["msg"])
	assert.Equal(t, float64(3), entry["page"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "checker.log")
	var buf bytes.Buffer
	logger, err := NewWithOutput(config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	logger.Warn("page 2 failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "page 2 failed")
	assert.Contains(t, buf.String(), "page 2 failed")
}
