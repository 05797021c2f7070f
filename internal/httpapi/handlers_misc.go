package httpapi

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head><title>Pixels API docs</title></head>
<body>
<h1>Pixels API</h1>
<p>Place and read pixels on a shared {{.Width}}x{{.Height}} canvas.</p>
<ul>
<li>GET /size</li>
<li>GET /canvas/pixels</li>
<li>GET /canvas/pixel?x=&amp;y=</li>
<li>PUT /canvas/pixel</li>
</ul>
</body>
</html>
`))

func (s *Server) docsHandler(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")

	_ = docsTemplate.Execute(c.Writer, gin.H{"Width": s.cfg.Width, "Height": s.cfg.Height})
}

func (s *Server) sizeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"width": s.cfg.Width, "height": s.cfg.Height})
}

var notFoundTemplate = template.Must(template.New("404").Parse(`<!DOCTYPE html>
<html>
<head><title>Not Found</title></head>
<body><h1>404 — not found</h1></body>
</html>
`))

func (s *Server) notFoundHandler(c *gin.Context) {
	c.Status(http.StatusNotFound)
	c.Header("Content-Type", "text/html; charset=utf-8")

	_ = notFoundTemplate.Execute(c.Writer, nil)
}
