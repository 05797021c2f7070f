// Package config centralizes the service's environment-derived configuration:
// connection strings, OAuth endpoints, secrets, canvas dimensions and the
// per-route rate-limit quota knobs.
package config

import (
	"github.com/joho/godotenv"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// RouteQuota holds the sliding-window amount/window and the cooldown duration
// (in seconds) for one rate-limited route.
type RouteQuota struct {
	Amount       int
	RateLimit    int
	RateCooldown int
}

// Config is the fully-resolved runtime configuration for the service.
type Config struct {
	DatabaseURL string
	RedisURL    string

	ClientID     string
	ClientSecret string
	JWTSecret    string
	AuthURL      string
	TokenURL     string
	UserURL      string
	BaseURL      string
	WebhookURL   string

	GitSHA string

	MinPoolSize int
	MaxPoolSize int

	LogLevel   yalogger.Level
	Production bool

	Width  int
	Height int

	PutPixel  RouteQuota
	GetPixel  RouteQuota
	GetPixels RouteQuota

	ModsFile string
}

// Load resolves Config from the process environment, applying the same
// defaults the original canvas service shipped with. DATABASE_URL, REDIS_URL,
// CLIENT_ID, CLIENT_SECRET, JWT_SECRET and the OAuth endpoint URLs are
// required; everything else falls back to a sane default and only warns.
func Load(log yalogger.Logger) (*Config, yaerrors.Error) {
	if dotenvErr := godotenv.Load(); dotenvErr != nil {
		log.Warnf("no .env file loaded: %s", dotenvErr.Error())
	}

	cfg := &Config{}

	var err yaerrors.Error

	if cfg.DatabaseURL, err = GetEnv("DATABASE_URL", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.RedisURL, err = GetEnv("REDIS_URL", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.ClientID, err = GetEnv("CLIENT_ID", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.ClientSecret, err = GetEnv("CLIENT_SECRET", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.JWTSecret, err = GetEnv("JWT_SECRET", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.AuthURL, err = GetEnv("AUTH_URL", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.TokenURL, err = GetEnv("TOKEN_URL", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.UserURL, err = GetEnv("USER_URL", "", true, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.BaseURL, err = GetEnv("BASE_URL", "http://localhost:8000", false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.WebhookURL, err = GetEnv("WEBHOOK_URL", "", false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.GitSHA, err = GetEnv("GIT_SHA", "dev", false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.MinPoolSize, err = GetEnv("MIN_POOL_SIZE", 1, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.MaxPoolSize, err = GetEnv("MAX_POOL_SIZE", 10, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.LogLevel, err = GetEnv("LOG_LEVEL", yalogger.InfoLevel, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.Production, err = GetEnv("PRODUCTION", false, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	// 16:9 aspect ratio scaled by a fixed multiplier, matching the canvas the
	// service was originally sized for.
	const sizeMultiplier = 17

	if cfg.Width, err = GetEnv("WIDTH", 16*sizeMultiplier, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.Height, err = GetEnv("HEIGHT", 9*sizeMultiplier, false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.PutPixel, err = loadRouteQuota("PUT_PIXEL", 6, 120, 180, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.GetPixel, err = loadRouteQuota("GET_PIXEL", 8, 10, 120, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.GetPixels, err = loadRouteQuota("GET_PIXELS", 5, 10, 60, log); err != nil {
		return nil, err.Wrap("load config")
	}

	if cfg.ModsFile, err = GetEnv("MODS_FILE", "mods.txt", false, log); err != nil {
		return nil, err.Wrap("load config")
	}

	return cfg, nil
}

func loadRouteQuota(
	prefix string,
	defaultAmount, defaultLimit, defaultCooldown int,
	log yalogger.Logger,
) (RouteQuota, yaerrors.Error) {
	var (
		quota RouteQuota
		err   yaerrors.Error
	)

	if quota.Amount, err = GetEnv(prefix+"_AMOUNT", defaultAmount, false, log); err != nil {
		return quota, err
	}

	if quota.RateLimit, err = GetEnv(prefix+"_RATE_LIMIT", defaultLimit, false, log); err != nil {
		return quota, err
	}

	if quota.RateCooldown, err = GetEnv(
		prefix+"_RATE_COOLDOWN",
		defaultCooldown,
		false,
		log,
	); err != nil {
		return quota, err
	}

	return quota, nil
}
