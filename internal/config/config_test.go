package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.ServerURL)
	assert.Equal(t, "nihongo-client.db", cfg.DBPath)
	assert.Equal(t, StoreBolt, cfg.Store)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Zero(t, cfg.HTTPTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("NIHONGO_SERVER_URL", "https://nihongo.example.com/api/")
	t.Setenv("NIHONGO_STORE", "SQLite")
	t.Setenv("NIHONGO_HTTP_TIMEOUT", "5s")
	t.Setenv("NIHONGO_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://nihongo.example.com/api", cfg.ServerURL)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NIHONGO_DB_PATH=/tmp/from-file.db\nNIHONGO_LOG_FORMAT=json\n"), 0o600))

	// godotenv пишет в окружение процесса; t.Setenv вернет значения после теста
	t.Setenv("NIHONGO_DB_PATH", "")
	t.Setenv("NIHONGO_LOG_FORMAT", "")
	require.NoError(t, os.Unsetenv("NIHONGO_DB_PATH"))
	require.NoError(t, os.Unsetenv("NIHONGO_LOG_FORMAT"))

	cfg, err := Load(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "NIHONGO_STORE", value: "redis"},
		{name: "bad url", key: "NIHONGO_SERVER_URL", value: "not a url"},
		{name: "bad format", key: "NIHONGO_LOG_FORMAT", value: "xml"},
		{name: "bad duration", key: "NIHONGO_HTTP_TIMEOUT", value: "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
