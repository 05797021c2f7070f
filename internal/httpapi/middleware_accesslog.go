package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
)

// noisyRoutes are high-frequency endpoints whose every-request info log line
// would drown out everything else, mirroring the original service's
// EndpointFilter over the uvicorn access logger.
var noisyRoutes = map[string]struct{}{
	"PUT /canvas/pixel": {},
	"GET /size":         {},
}

func (s *Server) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.Request.Method + " " + c.FullPath()

		entry := s.log.WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			WithField("route", route)

		if _, noisy := noisyRoutes[route]; noisy {
			entry.Debug("request handled")

			return
		}

		entry.Info("request handled")
	}
}
