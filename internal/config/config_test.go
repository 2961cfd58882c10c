package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv(FileEnv, "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.CommentaryModel)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashsignal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
commentary_model: gemini-2.0-flash
request_timeout: 10
metrics_enabled: false
database:
  host: db.internal
  dbname: signals
`), 0o600))

	t.Setenv(FileEnv, path)
	t.Setenv("REQUEST_TIMEOUT", "45")
	t.Setenv("METRICS_ENABLED", "")
	t.Setenv("COMMENTARY_MODEL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.CommentaryModel)
	assert.Equal(t, 45, cfg.RequestTimeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "signals", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadBadFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
