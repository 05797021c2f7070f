package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/internal/ratelimit"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/info")
	})
	s.engine.GET("/docs", s.docsHandler)
	s.engine.GET("/size", s.sizeHandler)

	s.engine.GET("/authorize", s.authorizeHandler)
	s.engine.GET("/callback", s.callbackHandler)
	s.engine.GET("/show_token", s.showTokenHandler)

	userGroup := s.engine.Group("")
	userGroup.Use(s.requireUser)

	ratelimit.RegisterLimited(
		userGroup,
		http.MethodGet,
		"/canvas/pixels",
		s.getPixels,
		currentUserID,
		s.getPixelsHandler,
	)
	ratelimit.RegisterLimited(
		userGroup,
		http.MethodGet,
		"/canvas/pixel",
		s.getPixel,
		currentUserID,
		s.getPixelHandler,
	)
	ratelimit.RegisterLimited(
		userGroup,
		http.MethodPut,
		"/canvas/pixel",
		s.putPixel,
		currentUserID,
		s.putPixelHandler,
	)

	modGroup := s.engine.Group("")
	modGroup.Use(s.requireModerator)

	modGroup.GET("/mod", s.modHandler)
	modGroup.POST("/set_mod", s.setModHandler)
	modGroup.POST("/mod_ban", s.modBanHandler)
	modGroup.GET("/pixel_history", s.pixelHistoryHandler)
	modGroup.POST("/webhook", s.webhookHandler)
	modGroup.DELETE("/token", s.resetTokenHandler)
	modGroup.POST("/refresh_cache", s.refreshCacheHandler)
}
