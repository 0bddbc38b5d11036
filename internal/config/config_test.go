package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://localhost/surveys
jwt:
  secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Analytics.Workers)
	assert.Equal(t, 20, cfg.Analytics.TextSampleSize)
	assert.Equal(t, "30d", cfg.Analytics.DefaultRange)
	assert.Equal(t, 10*time.Second, cfg.Analytics.QueryTimeout)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database_url: postgres://localhost/surveys
jwt:
  secret: s3cret
analytics:
  workers: 2
`)
	t.Setenv("ANALYTICS_WORKERS", "8")
	t.Setenv("ANALYTICS_DEFAULT_RANGE", "7d")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analytics.Workers)
	assert.Equal(t, "7d", cfg.Analytics.DefaultRange)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
