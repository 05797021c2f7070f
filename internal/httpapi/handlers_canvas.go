package httpapi

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/yagzip"
)

var rgbPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// canvasGzip compresses the raw pixel buffer for clients that advertise
// gzip support, which is worth doing here specifically: the buffer is
// width*height*3 bytes of mostly-repeated background color and compresses
// well, and it's requested on every /canvas/pixels poll.
var canvasGzip = yagzip.NewGzip()

func (s *Server) getPixelsHandler(c *gin.Context) {
	pixels, err := s.canvas.GetPixels(c.Request.Context())
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: get pixels", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to read canvas"})

		return
	}

	if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		compressed, gzErr := canvasGzip.Zip(pixels)
		if gzErr == nil {
			c.Header("Content-Encoding", "gzip")
			c.Data(http.StatusOK, "application/octet-stream", compressed)

			return
		}

		s.log.WithField("error", gzErr.Error()).Warn("httpapi: gzip canvas response failed, serving uncompressed")
	}

	c.Data(http.StatusOK, "application/octet-stream", pixels)
}

func (s *Server) getPixelHandler(c *gin.Context) {
	x, y, ok := s.parseCoords(c)
	if !ok {
		return
	}

	pixel, err := s.canvas.GetPixel(c.Request.Context(), x, y)
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: get pixel", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to read pixel"})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"x":   x,
		"y":   y,
		"rgb": hex.EncodeToString(pixel),
	})
}

// parseCoords reads x/y query params, validating both the integer format and
// the canvas bounds, writing the appropriate error response itself on
// failure.
func (s *Server) parseCoords(c *gin.Context) (x, y int, ok bool) {
	x, err := strconv.Atoi(c.Query("x"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "x must be an integer"})

		return 0, 0, false
	}

	y, err = strconv.Atoi(c.Query("y"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "y must be an integer"})

		return 0, 0, false
	}

	if x < 0 || x >= s.cfg.Width || y < 0 || y >= s.cfg.Height {
		c.JSON(http.StatusBadRequest, gin.H{"message": "pixel is out of the canvas bounds"})

		return 0, 0, false
	}

	return x, y, true
}

type putPixelBody struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	RGB string `json:"rgb"`
}

func (s *Server) putPixelHandler(c *gin.Context) {
	var body putPixelBody

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid pixel body"})

		return
	}

	if body.X < 0 || body.X >= s.cfg.Width || body.Y < 0 || body.Y >= s.cfg.Height {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "pixel is out of the canvas bounds"})

		return
	}

	if !rgbPattern.MatchString(body.RGB) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": fmt.Sprintf("%q is not a valid color, use hexadecimal RRGGBB", body.RGB),
		})

		return
	}

	userID, _ := currentUserID(c)

	if err := s.canvas.SetPixel(c.Request.Context(), body.X, body.Y, body.RGB, int64(userID)); err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: put pixel", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to set pixel"})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("set pixel at x=%d,y=%d to color %s.", body.X, body.Y, body.RGB),
	})
}
