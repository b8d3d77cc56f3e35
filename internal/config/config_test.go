package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Auth.Secret)
	assert.Equal(t, 28*24*time.Hour, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Tracking.Enabled)
	assert.Equal(t, "redis", cfg.Tracking.Backend)
	assert.False(t, cfg.CORS.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("AUTH_TOKEN_ISSUER", "https://auth.example.test")
	t.Setenv("AUTH_TOKEN_TTL_DAYS", "7")
	t.Setenv("TOKEN_TRACKING_ENABLED", "true")
	t.Setenv("TOKEN_TRACKING_BACKEND", "postgres")
	t.Setenv("CORS_ENABLE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Auth.Secret)
	assert.Equal(t, "https://auth.example.test", cfg.Auth.Issuer)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
	assert.True(t, cfg.Tracking.Enabled)
	assert.Equal(t, "postgres", cfg.Tracking.Backend)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestTokenTTLFallback(t *testing.T) {
	auth := AuthConfig{TokenTTLDays: 0}
	assert.Equal(t, 28*24*time.Hour, auth.TokenTTL())
}
