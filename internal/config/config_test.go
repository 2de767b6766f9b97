package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresBackendIP(t *testing.T) {
	t.Setenv("BACKEND_IP", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_IP")
}

func TestLoad_RejectsInvalidBackendIP(t *testing.T) {
	t.Setenv("BACKEND_IP", "not-an-ip")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid IP")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_IP", "192.0.2.10")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "192.0.2.10", cfg.BackendIP)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_RedisURLOptional(t *testing.T) {
	t.Setenv("BACKEND_IP", "192.0.2.10")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}
