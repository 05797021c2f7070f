package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/internal/token"
)

const authResultKey = "auth_result"

// requireUser verifies the bearer token and aborts with the outcome's status
// unless the caller resolved to an ordinary or moderator user.
func (s *Server) requireUser(c *gin.Context) {
	result := s.verify(c)

	if !result.Authorized() {
		abortForOutcome(c, result.Outcome)

		return
	}

	c.Set(authResultKey, result)
	c.Next()
}

// requireModerator verifies the bearer token and additionally requires
// moderator status.
func (s *Server) requireModerator(c *gin.Context) {
	result := s.verify(c)

	if !result.Authorized() {
		abortForOutcome(c, result.Outcome)

		return
	}

	if !result.IsModerator() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "moderator access required"})

		return
	}

	c.Set(authResultKey, result)
	c.Next()
}

func (s *Server) verify(c *gin.Context) token.AuthResult {
	result, err := s.auth.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: verify", s.log))

		return token.AuthResult{Outcome: token.OutcomeInvalid}
	}

	return result
}

func abortForOutcome(c *gin.Context, outcome token.Outcome) {
	status := http.StatusUnauthorized
	if outcome == token.OutcomeBanned {
		status = http.StatusForbidden
	}

	c.AbortWithStatusJSON(status, gin.H{"message": outcome.String()})
}

// currentUserID fetches the authenticated user id stashed by requireUser or
// requireModerator, for use as a ratelimit.UserIDFunc.
func currentUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(authResultKey)
	if !ok {
		return 0, false
	}

	result, ok := v.(token.AuthResult)
	if !ok || !result.Authorized() {
		return 0, false
	}

	return uint64(result.UserID), true
}
