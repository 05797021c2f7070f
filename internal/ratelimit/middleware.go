package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDFunc extracts the authenticated user id a quota should be charged
// against. It is supplied by the HTTP layer so this package never has to
// know how a request gets authenticated.
type UserIDFunc func(c *gin.Context) (uint64, bool)

const (
	headerRemaining     = "Requests-Remaining"
	headerLimit         = "Requests-Limit"
	headerPeriod        = "Requests-Period"
	headerReset         = "Requests-Reset"
	headerCooldownReset = "Cooldown-Reset"
)

// Middleware charges one interaction against the caller's quota and either
// lets the request through with quota headers attached, or aborts it with
// 429 when the caller is on cooldown.
func (l *Limiter) Middleware(userID UserIDFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		result, err := l.Increment(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err.WrapWithLog("ratelimit middleware", l.log))
			c.AbortWithStatus(http.StatusInternalServerError)

			return
		}

		writeHeaders(c, result)

		if result.Outcome == OutcomeCooldown {
			c.AbortWithStatus(http.StatusTooManyRequests)

			return
		}

		c.Next()
	}
}

// ProbeHandler answers the HEAD sibling route: it reports quota state
// without recording an interaction.
func (l *Limiter) ProbeHandler(userID UserIDFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)

			return
		}

		result, err := l.Probe(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err.WrapWithLog("ratelimit probe", l.log))
			c.AbortWithStatus(http.StatusInternalServerError)

			return
		}

		writeHeaders(c, result)

		status := http.StatusOK
		if result.Outcome == OutcomeCooldown {
			status = http.StatusTooManyRequests
		}

		c.Status(status)
	}
}

func writeHeaders(c *gin.Context, result Result) {
	if result.Outcome == OutcomeCooldown {
		c.Header(headerCooldownReset, strconv.FormatInt(result.CooldownReset, 10))

		return
	}

	c.Header(headerRemaining, strconv.Itoa(result.Quota.Remaining))
	c.Header(headerLimit, strconv.Itoa(result.Quota.Limit))
	c.Header(headerPeriod, strconv.FormatInt(result.Quota.Period, 10))
	c.Header(headerReset, strconv.FormatInt(result.Quota.Reset, 10))
}

// RegisterLimited mounts handler on method+relPath behind the limiter's
// Middleware, and auto-registers a HEAD sibling route that reports quota
// state without charging an interaction — the Go equivalent of the original
// service's decorator-driven HEAD probe, exposed as a plain function instead
// of reflective route wrapping to avoid a dependency cycle between this
// package and the HTTP layer that owns the gin engine.
func RegisterLimited(
	group gin.IRoutes,
	method string,
	relPath string,
	limiter *Limiter,
	userID UserIDFunc,
	handler gin.HandlerFunc,
) {
	group.Handle(method, relPath, limiter.Middleware(userID), handler)
	group.Handle(http.MethodHead, relPath, limiter.ProbeHandler(userID))
}
