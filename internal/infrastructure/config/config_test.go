package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SEARXNG_API_URL", "http://searxng:8080/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://searxng:8080", cfg.SearxngURL)
	assert.Equal(t, FormatAuto, cfg.SearxngResponseFormat)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 1, cfg.RateLimitPerSecond)
	assert.Equal(t, 15000, cfg.RateLimitPerMonth)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 45*time.Second, cfg.CBTimeout())
	assert.True(t, cfg.SearxngCBEnabled)
	assert.Equal(t, "hashed", cfg.QueryLogPIILevel)
}

func TestLoadConfigRequiresAPIURL(t *testing.T) {
	t.Setenv("SEARXNG_API_URL", "  ")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARXNG_API_URL")
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	t.Setenv("SEARXNG_API_URL", "http://searxng:8080")

	t.Run("format", func(t *testing.T) {
		t.Setenv("SEARXNG_RESPONSE_FORMAT", "xml")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("transport", func(t *testing.T) {
		t.Setenv("MCP_TRANSPORT", "websocket")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("SEARXNG_REQUEST_TIMEOUT", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfigLegacyLogLevel(t *testing.T) {
	t.Setenv("SEARXNG_API_URL", "http://searxng:8080")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENV_FASTMCP_LOG_LEVEL", "WARNING")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "WARNING", cfg.LogLevel)

	t.Setenv("LOG_LEVEL", "debug")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FREESEARCH_TEST_VAR=from-dotenv\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("FREESEARCH_TEST_VAR", "")

	require.NoError(t, LoadEnvFiles())
	assert.Equal(t, "from-dotenv", os.Getenv("FREESEARCH_TEST_VAR"))
}
