// Package ratelimit implements the sliding-window-plus-cooldown quota scheme
// the original service enforced per user per route: a Redis sorted set holds
// one scored member per interaction within the window, and a separate
// string key with a TTL holds the cooldown once the window is exceeded.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// Limiter enforces one route's quota across every user.
type Limiter struct {
	redis *kv.Redis
	log   yalogger.Logger

	routeKey string
	amount   int
	window   time.Duration
	cooldown time.Duration
}

// New builds a Limiter for one route. routeKey should come from RouteName
// and stay stable across restarts; amount is the number of interactions
// allowed per window; window and cooldown are both whole seconds.
func New(
	redis *kv.Redis,
	log yalogger.Logger,
	routeKey string,
	amount int,
	window time.Duration,
	cooldown time.Duration,
) *Limiter {
	return &Limiter{
		redis:    redis,
		log:      log,
		routeKey: routeKey,
		amount:   amount,
		window:   window,
		cooldown: cooldown,
	}
}

// Increment records one interaction for userID and reports whether it is
// within quota. The interaction that tips the count past the limit is the
// one that trips the cooldown: it is recorded (so the window's accounting
// stays correct) but answered with OutcomeCooldown, not OutcomeOK, so the
// caller's handler never runs for it.
func (l *Limiter) Increment(ctx context.Context, userID uint64) (Result, yaerrors.Error) {
	interactionKey := l.interactionKey(userID)
	cooldownKey := l.cooldownKey(userID)

	onCooldown, reset, err := l.checkCooldown(ctx, cooldownKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: check cooldown")
	}

	if onCooldown {
		return Result{Outcome: OutcomeCooldown, CooldownReset: reset}, nil
	}

	if err := l.recordInteraction(ctx, interactionKey); err != nil {
		return Result{}, err.Wrap("ratelimit: record interaction")
	}

	remaining, err := l.remaining(ctx, interactionKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: compute remaining")
	}

	if remaining < 0 {
		if _, err := l.redis.SetNX(ctx, cooldownKey, "1", l.cooldown); err != nil {
			return Result{}, err.Wrap("ratelimit: trigger cooldown")
		}

		l.log.WithField("route", l.routeKey).WithUserID(userID).Debug("rate limit exceeded, cooldown triggered")

		return Result{
			Outcome:       OutcomeCooldown,
			CooldownReset: int64(l.cooldown / time.Second),
		}, nil
	}

	resetSeconds, err := l.resetTime(ctx, interactionKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: compute reset")
	}

	return Result{
		Outcome: OutcomeOK,
		Quota:   l.quota(remaining, resetSeconds),
	}, nil
}

// Probe reports the current quota state for userID without recording an
// interaction, used to answer the HEAD sibling route.
func (l *Limiter) Probe(ctx context.Context, userID uint64) (Result, yaerrors.Error) {
	interactionKey := l.interactionKey(userID)
	cooldownKey := l.cooldownKey(userID)

	onCooldown, reset, err := l.checkCooldown(ctx, cooldownKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: check cooldown")
	}

	if onCooldown {
		return Result{Outcome: OutcomeCooldown, CooldownReset: reset}, nil
	}

	remaining, err := l.remaining(ctx, interactionKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: compute remaining")
	}

	if remaining < 0 {
		remaining = 0
	}

	resetSeconds, err := l.resetTime(ctx, interactionKey)
	if err != nil {
		return Result{}, err.Wrap("ratelimit: compute reset")
	}

	return Result{
		Outcome: OutcomeOK,
		Quota:   l.quota(remaining, resetSeconds),
	}, nil
}

func (l *Limiter) quota(remaining int, resetSeconds int64) Quota {
	return Quota{
		Remaining: remaining,
		Limit:     l.amount,
		Period:    int64(l.window / time.Second),
		Reset:     resetSeconds,
	}
}

func (l *Limiter) interactionKey(userID uint64) string {
	return fmt.Sprintf("interaction-%s-%d", l.routeKey, userID)
}

func (l *Limiter) cooldownKey(userID uint64) string {
	return fmt.Sprintf("cooldown-%s-%d", l.routeKey, userID)
}

func (l *Limiter) checkCooldown(ctx context.Context, key string) (bool, int64, yaerrors.Error) {
	exists, err := l.redis.Exists(ctx, key)
	if err != nil {
		return false, 0, err
	}

	if !exists {
		return false, 0, nil
	}

	ttl, err := l.redis.TTL(ctx, key)
	if err != nil {
		return false, 0, err
	}

	return true, int64(ttl / time.Second), nil
}

func (l *Limiter) recordInteraction(ctx context.Context, key string) yaerrors.Error {
	score := float64(time.Now().Add(l.window).Unix())

	if err := l.redis.ZAdd(ctx, key, score, uuid.NewString()); err != nil {
		return err
	}

	return l.redis.Expire(ctx, key, l.window)
}

// remaining prunes expired interactions and returns the number of slots left
// in the window, which may be negative once the limit has been exceeded.
func (l *Limiter) remaining(ctx context.Context, key string) (int, yaerrors.Error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	if err := l.redis.ZRemRangeByScore(ctx, key, "-inf", now); err != nil {
		return 0, err
	}

	count, err := l.redis.ZCard(ctx, key)
	if err != nil {
		return 0, err
	}

	return l.amount - int(count), nil
}

// resetTime returns the number of seconds until the oldest recorded
// interaction expires out of the window.
func (l *Limiter) resetTime(ctx context.Context, key string) (int64, yaerrors.Error) {
	members, err := l.redis.ZRange(ctx, key, 0, 0)
	if err != nil {
		return 0, err
	}

	if len(members) == 0 {
		return 0, nil
	}

	score, err := l.redis.ZScore(ctx, key, members[0])
	if err != nil {
		return 0, err
	}

	resetAt := int64(score) - time.Now().Unix()
	if resetAt < 0 {
		resetAt = 0
	}

	return resetAt, nil
}
