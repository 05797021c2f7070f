package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsMiddleware allows any origin but only GET/HEAD methods, matching the
// original service's CORSMiddleware(allow_methods=["GET", "HEAD"]) — the
// canvas is read-only for anonymous cross-origin callers, all mutating
// routes require a bearer token anyway.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, HEAD")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
