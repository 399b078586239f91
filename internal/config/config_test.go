package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FailsWithoutJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "config-test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "config-test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 30*time.Second, cfg.Cache.CatalogTTL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "config-test-secret")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "9090", cfg.App.Port)
}
