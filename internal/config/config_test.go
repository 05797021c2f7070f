package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/config"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	required := map[string]string{
		"DATABASE_URL":  "postgres://u:p@localhost:5432/pixels",
		"REDIS_URL":     "redis://localhost:6379/0",
		"CLIENT_ID":     "client",
		"CLIENT_SECRET": "secret",
		"JWT_SECRET":    "jwt-secret",
		"AUTH_URL":      "https://example.com/authorize",
		"TOKEN_URL":     "https://example.com/token",
		"USER_URL":      "https://example.com/me",
	}

	for k, v := range required {
		t.Setenv(k, v)
	}
}

func TestLoad_MissingRequiredVarFails(t *testing.T) {
	log := yalogger.NewBaseLogger(nil).NewLogger()

	_, err := config.Load(log)
	require.NotNil(t, err, "DATABASE_URL and friends are unset, Load must fail")
}

func TestLoad_AppliesDefaultsWhenOptionalVarsUnset(t *testing.T) {
	setRequiredEnv(t)

	log := yalogger.NewBaseLogger(nil).NewLogger()

	cfg, err := config.Load(log)
	require.Nil(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "dev", cfg.GitSHA)
	assert.Equal(t, 1, cfg.MinPoolSize)
	assert.Equal(t, 10, cfg.MaxPoolSize)
	assert.False(t, cfg.Production)
	assert.Equal(t, 16*17, cfg.Width)
	assert.Equal(t, 9*17, cfg.Height)
	assert.Equal(t, "mods.txt", cfg.ModsFile)

	assert.Equal(t, config.RouteQuota{Amount: 6, RateLimit: 120, RateCooldown: 180}, cfg.PutPixel)
	assert.Equal(t, config.RouteQuota{Amount: 8, RateLimit: 10, RateCooldown: 120}, cfg.GetPixel)
	assert.Equal(t, config.RouteQuota{Amount: 5, RateLimit: 10, RateCooldown: 60}, cfg.GetPixels)
}

func TestLoad_OverridesDefaultsFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WIDTH", "100")
	t.Setenv("HEIGHT", "50")
	t.Setenv("PUT_PIXEL_AMOUNT", "1")
	t.Setenv("PUT_PIXEL_RATE_LIMIT", "30")
	t.Setenv("PUT_PIXEL_RATE_COOLDOWN", "5")
	t.Setenv("PRODUCTION", "true")

	log := yalogger.NewBaseLogger(nil).NewLogger()

	cfg, err := config.Load(log)
	require.Nil(t, err)

	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
	assert.True(t, cfg.Production)
	assert.Equal(t, config.RouteQuota{Amount: 1, RateLimit: 30, RateCooldown: 5}, cfg.PutPixel)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MIN_POOL_SIZE", "not-an-int")

	log := yalogger.NewBaseLogger(nil).NewLogger()

	cfg, err := config.Load(log)
	require.Nil(t, err)
	assert.Equal(t, 1, cfg.MinPoolSize)
}
