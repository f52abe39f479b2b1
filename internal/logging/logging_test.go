package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONLines(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "daemon.log")

	log := New(Options{File: logFile, Level: "info"})
	log.Info("index rebuilt", zap.Int("paths", 4))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "index rebuilt", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["timestamp"])
	assert.Equal(t, float64(4), entry["paths"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "daemon.log")

	log := New(Options{File: logFile, Level: "info"})
	log.Debug("noise")
	log.Sync()

	data, _ := os.ReadFile(logFile)
	assert.Empty(t, data, "debug line should be filtered at info level")
}

func TestNew_NoSinksIsNop(t *testing.T) {
	log := New(Options{})
	// Must not panic or write anywhere.
	log.Info("dropped")
	assert.NoError(t, log.Sync())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""), "unknown levels default to info")
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}
