// Package httpapi wires the gin engine: route table, auth and rate-limit
// middleware, error mapping, and the small set of HTML pages the original
// service served alongside its JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/internal/canvas"
	"github.com/pixelcanvas/pixels/internal/config"
	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/moderation"
	"github.com/pixelcanvas/pixels/internal/ratelimit"
	"github.com/pixelcanvas/pixels/internal/token"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// Server groups everything a request handler needs: the domain services and
// the three per-route limiters the original service configured independently.
type Server struct {
	engine *gin.Engine

	cfg    *config.Config
	canvas *canvas.Canvas
	mod    *moderation.Moderator
	auth   *token.Authorizer
	oauth  *token.OAuth
	cookie token.Cookie
	redis  *kv.Redis
	log    yalogger.Logger

	putPixel  *ratelimit.Limiter
	getPixel  *ratelimit.Limiter
	getPixels *ratelimit.Limiter
}

// NewServer builds the gin engine and the three per-route limiters, and
// registers every route.
func NewServer(
	cfg *config.Config,
	c *canvas.Canvas,
	m *moderation.Moderator,
	auth *token.Authorizer,
	oauth *token.OAuth,
	cookie token.Cookie,
	redis *kv.Redis,
	log yalogger.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine: gin.New(),
		cfg:    cfg,
		canvas: c,
		mod:    m,
		auth:   auth,
		oauth:  oauth,
		cookie: cookie,
		redis:  redis,
		log:    log,
	}

	s.putPixel = ratelimit.New(
		redis,
		log,
		ratelimit.RouteName(s.putPixelHandler),
		cfg.PutPixel.Amount,
		secondsToDuration(cfg.PutPixel.RateLimit),
		secondsToDuration(cfg.PutPixel.RateCooldown),
	)
	s.getPixel = ratelimit.New(
		redis,
		log,
		ratelimit.RouteName(s.getPixelHandler),
		cfg.GetPixel.Amount,
		secondsToDuration(cfg.GetPixel.RateLimit),
		secondsToDuration(cfg.GetPixel.RateCooldown),
	)
	s.getPixels = ratelimit.New(
		redis,
		log,
		ratelimit.RouteName(s.getPixelsHandler),
		cfg.GetPixels.Amount,
		secondsToDuration(cfg.GetPixels.RateLimit),
		secondsToDuration(cfg.GetPixels.RateCooldown),
	)

	s.engine.Use(gin.Recovery(), s.accessLogMiddleware(), s.corsMiddleware(), s.errorMiddleware())
	s.engine.NoRoute(s.notFoundHandler)

	s.registerRoutes()

	return s
}

// Engine exposes the underlying gin engine, e.g. for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

const readHeaderTimeout = 5 * time.Second

// Run starts the HTTP server, blocking until ctx is cancelled or the server
// fails to start.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
