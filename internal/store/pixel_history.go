package store

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// CurrentPixel is the projection used to rebuild the flat cache buffer: the
// most recent non-deleted entry for each coordinate within bounds.
type CurrentPixel struct {
	X   int
	Y   int
	RGB string
}

// InsertPixel appends a placement to the history and bumps cache_state's
// last_modified, since there is no database trigger backing that invariant
// here: the application layer owns it explicitly.
func (s *Store) InsertPixel(ctx context.Context, x, y int, rgb string, userID int64) yaerrors.Error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&PixelHistory{
			X:      x,
			Y:      y,
			RGB:    rgb,
			UserID: userID,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&CacheState{}).
			Where(&CacheState{ID: SingletonCacheStateID}).
			Update("last_modified", time.Now()).Error
	})
	if err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "insert pixel")
	}

	return nil
}

// CurrentPixels returns the latest non-deleted entry for every coordinate
// with x < width and y < height, used to rebuild the flat cache.
func (s *Store) CurrentPixels(ctx context.Context, width, height int) ([]CurrentPixel, yaerrors.Error) {
	var rows []CurrentPixel

	err := s.DB.WithContext(ctx).Raw(`
		SELECT ph.x AS x, ph.y AS y, ph.rgb AS rgb
		FROM pixel_history ph
		INNER JOIN (
			SELECT x, y, MAX(pixel_history_id) AS max_id
			FROM pixel_history
			WHERE x < ? AND y < ? AND NOT deleted
			GROUP BY x, y
		) latest
		ON ph.x = latest.x AND ph.y = latest.y AND ph.pixel_history_id = latest.max_id
	`, width, height).Scan(&rows).Error
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "list current pixels")
	}

	return rows, nil
}

// PixelOwner returns the user id of the latest non-deleted placement at
// (x, y), or (0, false) if the pixel has no recorded history.
func (s *Store) PixelOwner(ctx context.Context, x, y int) (int64, bool, yaerrors.Error) {
	var row struct{ UserID int64 }

	err := s.DB.WithContext(ctx).
		Model(&PixelHistory{}).
		Select("user_id").
		Where("x = ? AND y = ? AND NOT deleted", x, y).
		Order("pixel_history_id DESC").
		Limit(1).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}

		return 0, false, yaerrors.FromError(http.StatusInternalServerError, err, "get pixel owner")
	}

	return row.UserID, true, nil
}

// BanCascade marks every history entry belonging to userIDs as deleted and
// bumps cache_state's last_modified so the next sync_cache rebuilds the
// flat buffer without those users' pixels.
func (s *Store) BanCascade(ctx context.Context, userIDs []int64) yaerrors.Error {
	if len(userIDs) == 0 {
		return nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&PixelHistory{}).
			Where("user_id IN ?", userIDs).
			Update("deleted", true).Error; err != nil {
			return err
		}

		return tx.Model(&CacheState{}).
			Where(&CacheState{ID: SingletonCacheStateID}).
			Update("last_modified", time.Now()).Error
	})
	if err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "ban cascade")
	}

	return nil
}
