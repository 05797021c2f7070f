package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

func TestJanitor_Sweep_RemovesOnlyOrphanedKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "cooldown-42", "1", 0).Err())
	require.NoError(t, client.Set(ctx, "interaction-7", "1", 0).Err())
	require.NoError(t, client.Set(ctx, "cooldown-9", "1", time.Minute).Err())
	require.NoError(t, client.Set(ctx, "unrelated-key", "1", 0).Err())

	log := yalogger.NewBaseLogger(nil).NewLogger()
	j := New(kv.NewRedis(client), log)

	require.NoError(t, j.sweep(ctx))

	assert.False(t, keyExists(t, client, "cooldown-42"), "orphaned cooldown key without a TTL should be removed")
	assert.False(t, keyExists(t, client, "interaction-7"), "orphaned interaction key without a TTL should be removed")
	assert.True(t, keyExists(t, client, "cooldown-9"), "a key with a live TTL must survive the sweep")
	assert.True(t, keyExists(t, client, "unrelated-key"), "keys outside the swept patterns must survive")
}

func TestJanitor_Sweep_NoopOnEmptyKeyspace(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := yalogger.NewBaseLogger(nil).NewLogger()
	j := New(kv.NewRedis(client), log)

	require.NoError(t, j.sweep(context.Background()))
}

func TestJanitor_Run_StopsOnContextCancel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := yalogger.NewBaseLogger(nil).NewLogger()
	j := New(kv.NewRedis(client), log)

	runCtx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		j.Run(runCtx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}
}

func keyExists(t *testing.T, client *redis.Client, key string) bool {
	t.Helper()

	n, err := client.Exists(context.Background(), key).Result()
	require.NoError(t, err)

	return n > 0
}
