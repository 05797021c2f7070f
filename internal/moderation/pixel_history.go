package moderation

import (
	"context"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// PixelHistory returns the user id that last placed the pixel at (x, y), or
// (0, false) if it has no recorded history.
func (m *Moderator) PixelHistory(ctx context.Context, x, y int) (int64, bool, yaerrors.Error) {
	userID, found, err := m.store.PixelOwner(ctx, x, y)
	if err != nil {
		return 0, false, err.Wrap("moderation: pixel history")
	}

	return userID, found, nil
}
