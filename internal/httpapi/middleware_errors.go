package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorMiddleware logs the last error attached via c.Error and answers 500
// with the generic JSON body {"message": "internal error"}, unless a handler
// already wrote a response.
func (s *Server) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		s.log.WithField("error", err.Error()).Error("request failed")

		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
