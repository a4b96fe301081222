package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := New(path, "debug")
	require.NoError(t, err)
	logger.Debug("hello", zap.String("screen", "DailyPack"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "DailyPack", entry["screen"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(path, "WARN")
	require.NoError(t, err)
	logger.Info("dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "app.log"), "loud")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("SKILLBUILDER_LOG", "")
	assert.Equal(t, filepath.Join("/data", "skillbuilder.log"), DefaultPath("/data"))

	t.Setenv("SKILLBUILDER_LOG", "/tmp/custom.log")
	assert.Equal(t, "/tmp/custom.log", DefaultPath("/data"))
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("SKILLBUILDER_LOG_LEVEL", "")
	assert.Equal(t, "info", LevelFromEnv())

	t.Setenv("SKILLBUILDER_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", LevelFromEnv())
}
