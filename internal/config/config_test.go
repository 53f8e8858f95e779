package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Chdir(home)

	cfg, err := LoadFrom(home)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "https://aula.school", cfg.BaseURL)
	assert.Equal(t, filepath.Join(home, ".aula"), cfg.SessionDir)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.DownloadDir)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(home, ".aula", "aula.log"), cfg.LogPath())
}

func TestLoadEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Chdir(home)
	t.Setenv("AULA_API_URL", "http://api.localhost:8000/")
	t.Setenv("AULA_TIMEOUT", "5s")
	t.Setenv("AULA_TOKEN", "env-token")
	t.Setenv("AULA_DOWNLOAD_DIR", "/tmp/certs")

	cfg, err := LoadFrom(home)
	require.NoError(t, err)

	assert.Equal(t, "http://api.localhost:8000", cfg.APIURL)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "/tmp/certs", cfg.DownloadDir)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Chdir(home)
	dir := filepath.Join(home, ".aula")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("api_url: https://backend.colegio.pe\nbase_url: https://colegio.pe\nlog_level: debug\n"), 0600))

	cfg, err := LoadFrom(home)
	require.NoError(t, err)

	assert.Equal(t, "https://backend.colegio.pe", cfg.APIURL)
	assert.Equal(t, "https://colegio.pe", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	home := t.TempDir()
	t.Chdir(home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("AULA_LOG_LEVEL=warn\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("AULA_LOG_LEVEL") }) //nolint:errcheck

	cfg, err := LoadFrom(home)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsBadURL(t *testing.T) {
	home := t.TempDir()
	t.Chdir(home)
	t.Setenv("AULA_API_URL", "not a url")

	_, err := LoadFrom(home)
	assert.Error(t, err)
}
