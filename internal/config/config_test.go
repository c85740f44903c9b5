package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5, cfg.WorkerPoolSize)
	assert.Equal(t, 8, cfg.JWTExpirationHours)
	assert.Equal(t, 24, cfg.JWTRefreshHours)
	assert.Equal(t, "New Pindi Furniture", cfg.ShopName)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.RedisURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SHOP_NAME", "NPF Test Branch")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "NPF Test Branch", cfg.ShopName)
}
