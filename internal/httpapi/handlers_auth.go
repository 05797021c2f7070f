package httpapi

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/internal/token"
)

func (s *Server) authorizeHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, s.oauth.AuthorizeURL())
}

func (s *Server) callbackHandler(c *gin.Context) {
	code := c.Query("code")

	cookieValue, outcome, err := s.oauth.Callback(c.Request.Context(), code)
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: callback", s.log))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown error while creating token"})

		return
	}

	switch outcome {
	case token.CallbackBanned:
		c.JSON(http.StatusForbidden, gin.H{"message": "you are banned"})

		return
	case token.CallbackBadExchange:
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown error while creating token"})

		return
	case token.CallbackOK:
	}

	c.SetCookie(token.CookieName, cookieValue, token.CookieMaxAgeSeconds, token.CookiePath, "", false, true)
	c.Redirect(http.StatusSeeOther, token.CookiePath)
}

var (
	tokenDisplayTemplate = template.Must(template.New("api_token").Parse(`<!DOCTYPE html>
<html>
<head><title>Your token</title></head>
<body><p>Your token: <code>{{.}}</code></p></body>
</html>
`))

	cookieDisabledTemplate = template.Must(template.New("cookie_disabled").Parse(`<!DOCTYPE html>
<html>
<head><title>No token found</title></head>
<body><p>We couldn't find your token. Make sure cookies are enabled and try again.</p></body>
</html>
`))
)

func (s *Server) showTokenHandler(c *gin.Context) {
	cookieValue, err := c.Cookie(token.CookieName)

	c.Header("Content-Type", "text/html; charset=utf-8")

	if err != nil || cookieValue == "" {
		c.Status(http.StatusOK)
		_ = cookieDisabledTemplate.Execute(c.Writer, nil)

		return
	}

	tok, yerr := s.cookie.Unwrap(cookieValue)
	if yerr != nil {
		c.Status(http.StatusOK)
		_ = cookieDisabledTemplate.Execute(c.Writer, nil)

		return
	}

	c.Status(http.StatusOK)
	_ = tokenDisplayTemplate.Execute(c.Writer, tok)
}
