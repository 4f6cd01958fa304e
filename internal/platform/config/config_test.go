package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_DefaultsWithEnvOverride(t *testing.T) {
	t.Setenv("FORECOURT_PROVIDER_BASE_URL", "https://provider.example")
	t.Setenv("FORECOURT_ADDR", ":9090")
	t.Setenv("FORECOURT_BREAKER_FAILURE_THRESHOLD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://provider.example", cfg.Provider.BaseURL)
	assert.Equal(t, 3, cfg.Breaker.FailureThreshold)

	// Untouched knobs keep their defaults.
	assert.Equal(t, 60*time.Second, cfg.Breaker.ResetTimeout)
	assert.Equal(t, 15*time.Minute, cfg.TTL.Results)
	assert.Equal(t, 5*time.Minute, cfg.TTL.TrendFallback)
}

func TestLoad_MissingProviderURLFails(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider.base_url")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	writeFile(t, path, `
addr: ":7070"
provider:
  base_url: "https://file.example"
ttl:
  results: 5m
`)
	t.Setenv("FORECOURT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "https://file.example", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.TTL.Results)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	writeFile(t, path, `
addr: ":7070"
provider:
  base_url: "https://file.example"
`)
	t.Setenv("FORECOURT_CONFIG", path)
	t.Setenv("FORECOURT_PROVIDER_BASE_URL", "https://env.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.Provider.BaseURL)
}
