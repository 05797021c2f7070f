// Command pixelsd runs the pixel canvas service: it wires configuration,
// storage, cache, the canvas engine, rate limiting, token auth, moderation,
// the HTTP surface and the background janitor together and serves until
// interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pixelcanvas/pixels/internal/canvas"
	"github.com/pixelcanvas/pixels/internal/config"
	"github.com/pixelcanvas/pixels/internal/httpapi"
	"github.com/pixelcanvas/pixels/internal/janitor"
	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/moderation"
	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/token"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLogger := yalogger.NewBaseLogger(nil).NewLogger()

	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Fatalf("load config: %s", err.Error())
	}

	log := yalogger.NewBaseLogger(&yalogger.Config{Level: cfg.LogLevel}).NewLogger()

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %s", err.Error())
	}
	defer db.Close() //nolint:errcheck // best-effort on shutdown

	if sqlDB, dbErr := db.DB.DB(); dbErr == nil {
		sqlDB.SetMaxIdleConns(cfg.MinPoolSize)
		sqlDB.SetMaxOpenConns(cfg.MaxPoolSize)
	}

	redisOpts, parseErr := redis.ParseURL(cfg.RedisURL)
	if parseErr != nil {
		log.Fatalf("parse redis url: %s", parseErr.Error())
	}

	redisClient := kv.NewRedis(redis.NewClient(redisOpts))

	c := canvas.New(db, redisClient, log, cfg.Width, cfg.Height, cfg.GitSHA)

	mods, err := token.LoadMods(cfg.ModsFile)
	if err != nil {
		log.Fatalf("load mods file: %s", err.Error())
	}

	authorizer := token.NewAuthorizer(db, log, cfg.JWTSecret, mods)
	cookie := token.NewCookie(cfg.JWTSecret)
	oauth := token.NewOAuth(
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.AuthURL,
		cfg.TokenURL,
		cfg.UserURL,
		cfg.BaseURL,
		authorizer,
		cookie,
		log,
	)

	mod := moderation.New(db, c, redisClient, log, cfg.Width, cfg.Height, cfg.WebhookURL)

	server := httpapi.NewServer(cfg, c, mod, authorizer, oauth, cookie, redisClient, log)

	j := janitor.New(redisClient, log)
	go j.Run(ctx)

	log.Infof("pixelsd starting on :8000 (git sha %s)", cfg.GitSHA)

	if err := server.Run(ctx, ":8000"); err != nil {
		log.Fatalf("http server: %s", err.Error())
	}
}
