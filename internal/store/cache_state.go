package store

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// GetCacheState returns the current singleton cache_state row.
func (s *Store) GetCacheState(ctx context.Context) (*CacheState, yaerrors.Error) {
	var state CacheState

	if err := s.DB.WithContext(ctx).
		Where(&CacheState{ID: SingletonCacheStateID}).
		Take(&state).Error; err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"get cache state",
		)
	}

	return &state, nil
}

// TryAcquireSyncLock attempts to take the rebuild lock, functioning as a
// spinlock: the caller acquired the lock iff the previous value was NULL.
// The row is read with a locking clause and updated inside one transaction
// so the read-then-write is atomic with respect to concurrent callers, the
// same guarantee a single self-join UPDATE gives on a database that
// supports one.
func (s *Store) TryAcquireSyncLock(ctx context.Context) (bool, yaerrors.Error) {
	var acquired bool

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state CacheState

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&CacheState{ID: SingletonCacheStateID}).
			Take(&state).Error; err != nil {
			return err
		}

		acquired = state.SyncLock == nil

		now := time.Now()

		return tx.Model(&CacheState{}).
			Where(&CacheState{ID: SingletonCacheStateID}).
			Update("sync_lock", &now).Error
	})
	if err != nil {
		return false, yaerrors.FromError(http.StatusInternalServerError, err, "try acquire sync lock")
	}

	return acquired, nil
}

// StealDeadlockedLock force-acquires the lock if it has been held longer
// than timeout, reporting whether this call is the one that stole it.
func (s *Store) StealDeadlockedLock(ctx context.Context, timeout time.Duration) (bool, yaerrors.Error) {
	cutoff := time.Now().Add(-timeout)
	now := time.Now()

	result := s.DB.WithContext(ctx).
		Model(&CacheState{}).
		Where("id = ? AND sync_lock IS NOT NULL AND sync_lock < ?", SingletonCacheStateID, cutoff).
		Update("sync_lock", &now)
	if result.Error != nil {
		return false, yaerrors.FromError(
			http.StatusInternalServerError,
			result.Error,
			"steal deadlocked sync lock",
		)
	}

	return result.RowsAffected == 1, nil
}

// ReleaseSyncLock clears the rebuild lock, making it available to any waiter.
func (s *Store) ReleaseSyncLock(ctx context.Context) yaerrors.Error {
	if err := s.DB.WithContext(ctx).
		Model(&CacheState{}).
		Where(&CacheState{ID: SingletonCacheStateID}).
		Update("sync_lock", nil).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"release sync lock",
		)
	}

	return nil
}

// MarkSynced records that a rebuild has just completed successfully.
func (s *Store) MarkSynced(ctx context.Context) yaerrors.Error {
	if err := s.DB.WithContext(ctx).
		Model(&CacheState{}).
		Where(&CacheState{ID: SingletonCacheStateID}).
		Update("last_synced", time.Now()).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"mark cache state synced",
		)
	}

	return nil
}

// MarkModified records that the history changed, so the next
// Canvas.isOutOfDate check in every process observes it.
func (s *Store) MarkModified(ctx context.Context) yaerrors.Error {
	if err := s.DB.WithContext(ctx).
		Model(&CacheState{}).
		Where(&CacheState{ID: SingletonCacheStateID}).
		Update("last_modified", time.Now()).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"mark cache state modified",
		)
	}

	return nil
}
