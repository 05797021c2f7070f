package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixelcanvas/pixels/internal/moderation"
)

func (s *Server) modHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "hello fellow moderator!"})
}

type userIDBody struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) setModHandler(c *gin.Context) {
	var body userIDBody

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid body"})

		return
	}

	outcome, err := s.mod.SetMod(c.Request.Context(), body.UserID)
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: set mod", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to set mod"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": setModMessage(outcome, body.UserID)})
}

func setModMessage(outcome moderation.SetModOutcome, userID int64) string {
	switch outcome {
	case moderation.SetModNotFound:
		return fmt.Sprintf("user with user_id %d does not exist.", userID)
	case moderation.SetModAlreadyMod:
		return fmt.Sprintf("user with user_id %d is already a mod.", userID)
	case moderation.SetModPromoted:
		return fmt.Sprintf("successfully set user with user_id %d to mod.", userID)
	default:
		return "unknown outcome."
	}
}

func (s *Server) modBanHandler(c *gin.Context) {
	var body []userIDBody

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid body"})

		return
	}

	ids := make([]int64, len(body))
	for i, u := range body {
		ids[i] = u.UserID
	}

	result, err := s.mod.Ban(c.Request.Context(), ids)
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: mod ban", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to ban users"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"banned": orEmpty(result.Banned), "not_found": orEmpty(result.NotFound)})
}

func orEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}

	return ids
}

func (s *Server) pixelHistoryHandler(c *gin.Context) {
	x, y, ok := s.parseCoords(c)
	if !ok {
		return
	}

	userID, found, err := s.mod.PixelHistory(c.Request.Context(), x, y)
	if err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: pixel history", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to read pixel history"})

		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"message": "no user history for this pixel"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

func (s *Server) webhookHandler(c *gin.Context) {
	if err := s.mod.Webhook(c.Request.Context()); err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: webhook", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to post webhook"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "webhook posted successfully."})
}

func (s *Server) resetTokenHandler(c *gin.Context) {
	var body userIDBody

	if err := c.ShouldBindJSON(&body); err != nil {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid body"})

			return
		}

		body.UserID = int64(userID)
	}

	if err := s.mod.ResetToken(c.Request.Context(), body.UserID); err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: reset token", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to reset token"})

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) refreshCacheHandler(c *gin.Context) {
	if err := s.mod.RefreshCache(c.Request.Context()); err != nil {
		_ = c.Error(err.WrapWithLog("httpapi: refresh cache", s.log))
		c.JSON(err.Code(), gin.H{"message": "failed to refresh cache"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache refreshed."})
}
