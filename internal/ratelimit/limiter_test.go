package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/ratelimit"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

func setupLimiter(t *testing.T, amount int, window, cooldown time.Duration) (*ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := yalogger.NewBaseLogger(nil).NewLogger()

	return ratelimit.New(kv.NewRedis(client), log, "test-route", amount, window, cooldown), mr
}

func TestLimiter_Increment_AllowsWithinQuota(t *testing.T) {
	ctx := context.Background()

	l, _ := setupLimiter(t, 3, time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		result, err := l.Increment(ctx, 1)
		require.Nil(t, err)
		assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)
	}
}

func TestLimiter_Increment_TripsCooldownPastLimit(t *testing.T) {
	ctx := context.Background()

	l, _ := setupLimiter(t, 2, time.Minute, time.Minute)

	for i := 0; i < 2; i++ {
		result, err := l.Increment(ctx, 7)
		require.Nil(t, err)
		assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)
	}

	// The third call is the one that tips the count past the limit: it is
	// recorded against the window, but the caller sees the cooldown, not OK.
	result, err := l.Increment(ctx, 7)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeCooldown, result.Outcome)
	assert.Greater(t, result.CooldownReset, int64(0))

	// Any subsequent call is still on cooldown.
	result, err = l.Increment(ctx, 7)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeCooldown, result.Outcome)
	assert.Greater(t, result.CooldownReset, int64(0))
}

func TestLimiter_Increment_IsolatesByUser(t *testing.T) {
	ctx := context.Background()

	l, _ := setupLimiter(t, 1, time.Minute, time.Minute)

	result, err := l.Increment(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)

	result, err = l.Increment(ctx, 2)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)
}

func TestLimiter_Probe_DoesNotRecordInteraction(t *testing.T) {
	ctx := context.Background()

	l, _ := setupLimiter(t, 1, time.Minute, time.Minute)

	for i := 0; i < 5; i++ {
		result, err := l.Probe(ctx, 3)
		require.Nil(t, err)
		assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)
		assert.Equal(t, 1, result.Quota.Remaining)
	}
}

func TestLimiter_Increment_WindowExpiryFreesSlot(t *testing.T) {
	ctx := context.Background()

	l, mr := setupLimiter(t, 1, time.Second, time.Minute)

	result, err := l.Increment(ctx, 9)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)

	mr.FastForward(2 * time.Second)

	result, err = l.Increment(ctx, 9)
	require.Nil(t, err)
	assert.Equal(t, ratelimit.OutcomeOK, result.Outcome)
}
