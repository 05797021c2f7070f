package canvas_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/canvas"
	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

const (
	testWidth  = 4
	testHeight = 3
)

func setupTestCanvas(t *testing.T) (*canvas.Canvas, *store.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s, yerr := store.OpenSQLite(":memory:")
	require.Nil(t, yerr)

	log := yalogger.NewBaseLogger(nil).NewLogger()

	c := canvas.New(s, kv.NewRedis(client), log, testWidth, testHeight, "test-sha")

	return c, s
}

func TestCanvas_GetPixels_BuildsOnFirstUse(t *testing.T) {
	ctx := context.Background()

	c, _ := setupTestCanvas(t)

	pixels, err := c.GetPixels(ctx)
	require.Nil(t, err)

	assert.Len(t, pixels, testWidth*testHeight*3)

	for i := range pixels {
		assert.Equal(t, byte(0xFF), pixels[i], "default background should be white")
	}
}

func TestCanvas_SetPixel_PatchesCache(t *testing.T) {
	ctx := context.Background()

	c, _ := setupTestCanvas(t)

	require.Nil(t, c.SetPixel(ctx, 1, 1, "00FF00", 42))

	pixel, err := c.GetPixel(ctx, 1, 1)
	require.Nil(t, err)

	assert.Equal(t, []byte{0x00, 0xFF, 0x00}, pixel)
}

func TestCanvas_ForceRebuild_RestoresFromHistory(t *testing.T) {
	ctx := context.Background()

	c, s := setupTestCanvas(t)

	require.Nil(t, c.SetPixel(ctx, 0, 0, "FF0000", 1))
	require.Nil(t, c.SetPixel(ctx, 2, 2, "0000FF", 2))

	require.Nil(t, s.BanCascade(ctx, []int64{1}))
	require.Nil(t, c.ForceRebuild(ctx))

	pixel, err := c.GetPixel(ctx, 0, 0)
	require.Nil(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, pixel, "banned user's pixel should revert to background")

	pixel, err = c.GetPixel(ctx, 2, 2)
	require.Nil(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xFF}, pixel)
}
