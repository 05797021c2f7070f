package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.OpenSQLite(":memory:")
	require.Nil(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_GetUser_NotFound(t *testing.T) {
	s := setupStore(t)

	user, found, err := s.GetUser(context.Background(), 1)
	require.Nil(t, err)
	assert.False(t, found)
	assert.Nil(t, user)
}

func TestStore_UpsertUserSalt_InsertsThenUpdatesSaltOnly(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.Nil(t, s.UpsertUserSalt(ctx, 1, "first-salt", true))

	user, found, err := s.GetUser(ctx, 1)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, "first-salt", user.KeySalt)
	assert.True(t, user.IsMod)

	require.Nil(t, s.UpsertUserSalt(ctx, 1, "second-salt", false))

	user, found, err = s.GetUser(ctx, 1)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, "second-salt", user.KeySalt)
	assert.True(t, user.IsMod, "a later reset must not revoke existing mod status")
}

func TestStore_SetMod_FalseWhenUserMissing(t *testing.T) {
	s := setupStore(t)

	ok, err := s.SetMod(context.Background(), 99)
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestStore_BanUsers_OnlyReturnsExistingIDs(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.Nil(t, s.UpsertUserSalt(ctx, 1, "salt", false))

	banned, err := s.BanUsers(ctx, []int64{1, 2})
	require.Nil(t, err)
	assert.Equal(t, []int64{1}, banned)

	user, found, err := s.GetUser(ctx, 1)
	require.Nil(t, err)
	require.True(t, found)
	assert.True(t, user.IsBanned)
}

func TestStore_InsertPixel_CurrentPixels_AndOwner(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.Nil(t, s.InsertPixel(ctx, 0, 0, "FF0000", 1))
	require.Nil(t, s.InsertPixel(ctx, 0, 0, "00FF00", 2))
	require.Nil(t, s.InsertPixel(ctx, 1, 0, "0000FF", 1))

	rows, err := s.CurrentPixels(ctx, 4, 4)
	require.Nil(t, err)
	require.Len(t, rows, 2)

	owner, found, err := s.PixelOwner(ctx, 0, 0)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), owner, "owner should be the most recent placement")

	_, found, err = s.PixelOwner(ctx, 3, 3)
	require.Nil(t, err)
	assert.False(t, found)
}

func TestStore_BanCascade_HidesPixelsFromCurrentPixels(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.Nil(t, s.InsertPixel(ctx, 0, 0, "FF0000", 1))
	require.Nil(t, s.InsertPixel(ctx, 1, 0, "00FF00", 2))

	require.Nil(t, s.BanCascade(ctx, []int64{1}))

	rows, err := s.CurrentPixels(ctx, 4, 4)
	require.Nil(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "00FF00", rows[0].RGB)
}

func TestStore_CacheState_LockLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	acquired, err := s.TryAcquireSyncLock(ctx)
	require.Nil(t, err)
	assert.True(t, acquired)

	acquired, err = s.TryAcquireSyncLock(ctx)
	require.Nil(t, err)
	assert.False(t, acquired, "lock is already held")

	require.Nil(t, s.ReleaseSyncLock(ctx))

	acquired, err = s.TryAcquireSyncLock(ctx)
	require.Nil(t, err)
	assert.True(t, acquired, "lock should be free again after release")
}

func TestStore_GetCacheState_ReturnsSeededSingleton(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	state, err := s.GetCacheState(ctx)
	require.Nil(t, err)
	assert.Equal(t, store.SingletonCacheStateID, state.ID)
	assert.Nil(t, state.SyncLock)
}

func TestStore_MarkSynced_AndMarkModified_UpdateTimestamps(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	before, err := s.GetCacheState(ctx)
	require.Nil(t, err)
	assert.True(t, before.LastSynced.IsZero())
	assert.True(t, before.LastModified.IsZero())

	require.Nil(t, s.MarkSynced(ctx))
	require.Nil(t, s.MarkModified(ctx))

	after, err := s.GetCacheState(ctx)
	require.Nil(t, err)
	assert.False(t, after.LastSynced.IsZero())
	assert.False(t, after.LastModified.IsZero())
}

func TestStore_StealDeadlockedLock(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	acquired, err := s.TryAcquireSyncLock(ctx)
	require.Nil(t, err)
	require.True(t, acquired)

	stolen, err := s.StealDeadlockedLock(ctx, time.Hour)
	require.Nil(t, err)
	assert.False(t, stolen, "lock was just acquired, it is not stale yet")

	stolen, err = s.StealDeadlockedLock(ctx, -time.Second)
	require.Nil(t, err)
	assert.True(t, stolen, "a negative timeout makes any held lock look stale")
}
