// Package moderation implements the moderator-only operations: promoting
// users, banning them (with cascading pixel removal), inspecting pixel
// provenance, rotating any target user's token, and pushing a canvas render to an
// external webhook.
package moderation

import (
	"net/http"
	"time"

	"github.com/pixelcanvas/pixels/internal/canvas"
	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// Moderator groups the moderator-only operations against the shared store,
// canvas cache and Redis client.
type Moderator struct {
	store  *store.Store
	canvas *canvas.Canvas
	redis  *kv.Redis
	log    yalogger.Logger

	width, height int
	webhookURL    string

	httpClient *http.Client
}

// New builds a Moderator. webhookURL may be empty, in which case Webhook
// always fails with a clear error instead of silently no-opping.
func New(
	s *store.Store,
	c *canvas.Canvas,
	redis *kv.Redis,
	log yalogger.Logger,
	width, height int,
	webhookURL string,
) *Moderator {
	return &Moderator{
		store:      s,
		canvas:     c,
		redis:      redis,
		log:        log,
		width:      width,
		height:     height,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}
