package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_InvalidLevel(t *testing.T) {
	err := Initialize(Config{Level: "verbose", Environment: "development"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInitialize_Development(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: "debug", Environment: "development"}))
	assert.NotNil(t, Log)

	// Helpers must not panic once initialized
	Info("info message")
	Debug("debug message")
	LogHTTPRequest("GET", "/api/courses", 200, 0.01)
	LogAPICall("storage", "putObject", "success", 0.2)
}

func TestInitialize_ProductionCreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, Initialize(Config{
		Level:       "info",
		LogDir:      dir,
		Environment: "production",
		ServiceName: "certiswift-api-test",
	}))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Reset to a quiet logger for other tests
	require.NoError(t, Initialize(Config{Level: "error", Environment: "development"}))
}

func TestNewRotatingWriter_Defaults(t *testing.T) {
	w := newRotatingWriter("/tmp/app.log", Config{})
	assert.Equal(t, 100, w.MaxSize)
	assert.Equal(t, 5, w.MaxBackups)

	w = newRotatingWriter("/tmp/app.log", Config{MaxSizeMB: 10, MaxBackups: 2})
	assert.Equal(t, 10, w.MaxSize)
	assert.Equal(t, 2, w.MaxBackups)
}
