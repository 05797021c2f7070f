package moderation

import (
	"context"
	"net/http"

	"github.com/pixelcanvas/pixels/internal/token"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// ResetToken rotates userID's salt, invalidating every token issued before
// this call. Unlike the self-service login flow, the moderator triggering
// this never sees the new token — the target simply has to log in again.
func (m *Moderator) ResetToken(ctx context.Context, userID int64) yaerrors.Error {
	user, found, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return err.Wrap("moderation: reset token")
	}

	if !found {
		return yaerrors.FromString(http.StatusNotFound, "moderation: user not found")
	}

	salt, genErr := token.NewSalt()
	if genErr != nil {
		return yaerrors.FromError(http.StatusInternalServerError, genErr, "moderation: generate salt")
	}

	if err := m.store.UpsertUserSalt(ctx, userID, salt, user.IsMod); err != nil {
		return err.Wrap("moderation: reset token")
	}

	return nil
}

// RefreshCache forces an immediate canvas cache rebuild, bypassing the
// normal freshness check.
func (m *Moderator) RefreshCache(ctx context.Context) yaerrors.Error {
	if err := m.canvas.ForceRebuild(ctx); err != nil {
		return err.Wrap("moderation: refresh cache")
	}

	return nil
}
