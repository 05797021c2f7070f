package store

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// GetUser returns the user row for userID, or (nil, false) if it doesn't exist.
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, bool, yaerrors.Error) {
	var user User

	if err := s.DB.WithContext(ctx).
		Where(&User{UserID: userID}).
		Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}

		return nil, false, yaerrors.FromError(http.StatusInternalServerError, err, "get user")
	}

	return &user, true, nil
}

// UpsertUserSalt inserts the user if absent (marking it a moderator when
// isMod is true) or, if present, overwrites its key_salt while leaving
// is_mod and is_banned untouched.
func (s *Store) UpsertUserSalt(ctx context.Context, userID int64, salt string, isMod bool) yaerrors.Error {
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"key_salt"}),
		}).
		Create(&User{
			UserID:  userID,
			KeySalt: salt,
			IsMod:   isMod,
		}).Error; err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "upsert user salt")
	}

	return nil
}

// SetMod flags userID as a moderator. Returns false if the user does not exist.
func (s *Store) SetMod(ctx context.Context, userID int64) (bool, yaerrors.Error) {
	result := s.DB.WithContext(ctx).
		Model(&User{}).
		Where(&User{UserID: userID}).
		Update("is_mod", true)
	if result.Error != nil {
		return false, yaerrors.FromError(http.StatusInternalServerError, result.Error, "set mod")
	}

	return result.RowsAffected > 0, nil
}

// BanUsers flags the given user ids as banned and returns the subset that
// actually existed in the users table.
func (s *Store) BanUsers(ctx context.Context, userIDs []int64) ([]int64, yaerrors.Error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var existing []int64

	if err := s.DB.WithContext(ctx).
		Model(&User{}).
		Where("user_id IN ?", userIDs).
		Pluck("user_id", &existing).Error; err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "find users to ban")
	}

	if len(existing) == 0 {
		return nil, nil
	}

	if err := s.DB.WithContext(ctx).
		Model(&User{}).
		Where("user_id IN ?", existing).
		Update("is_banned", true).Error; err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "ban users")
	}

	return existing, nil
}
