// Package kv wraps the shared Redis client with the handful of operations the
// canvas cache and rate limiter need, translating driver errors into
// yaerrors.Error so callers never touch go-redis directly.
package kv

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
	}
}

func (r *Redis) Raw() *redis.Client {
	return r.client
}

// Get returns the string value stored at key, or ("", nil) if it does not exist.
func (r *Redis) Get(ctx context.Context, key string) (string, yaerrors.Error) {
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}

		return "", yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to get value by `%s`", key),
		)
	}

	return result, nil
}

// Len returns the length in bytes of the string stored at key.
func (r *Redis) Len(ctx context.Context, key string) (int64, yaerrors.Error) {
	result, err := r.client.StrLen(ctx, key).Result()
	if err != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to get strlen of `%s`", key),
		)
	}

	return result, nil
}

// GetRange returns the byte range [start, end] (inclusive) of the string stored at key.
func (r *Redis) GetRange(ctx context.Context, key string, start, end int64) ([]byte, yaerrors.Error) {
	result, err := r.client.GetRange(ctx, key, start, end).Result()
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to get range of `%s`", key),
		)
	}

	return []byte(result), nil
}

// Set overwrites the entire value stored at key.
func (r *Redis) Set(ctx context.Context, key string, value []byte) yaerrors.Error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to set value of `%s`", key),
		)
	}

	return nil
}

// SetRange overwrites value at the given byte offset in the string stored at key.
func (r *Redis) SetRange(
	ctx context.Context,
	key string,
	offset int64,
	value []byte,
) yaerrors.Error {
	if err := r.client.SetRange(ctx, key, offset, string(value)).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to set range of `%s`", key),
		)
	}

	return nil
}

// Exists reports whether key is present.
func (r *Redis) Exists(ctx context.Context, key string) (bool, yaerrors.Error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to check existence of `%s`", key),
		)
	}

	return result > 0, nil
}

// Del removes key.
func (r *Redis) Del(ctx context.Context, key string) yaerrors.Error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to delete `%s`", key),
		)
	}

	return nil
}

// ZAdd adds member to the sorted set at key scored by score.
func (r *Redis) ZAdd(ctx context.Context, key string, score float64, member string) yaerrors.Error {
	if err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to zadd member to `%s`", key),
		)
	}

	return nil
}

// ZRemRangeByScore removes members of the sorted set at key whose score falls in [min, max].
func (r *Redis) ZRemRangeByScore(ctx context.Context, key string, min, max string) yaerrors.Error {
	if err := r.client.ZRemRangeByScore(ctx, key, min, max).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to zremrangebyscore on `%s`", key),
		)
	}

	return nil
}

// ZCard returns the cardinality of the sorted set at key.
func (r *Redis) ZCard(ctx context.Context, key string) (int64, yaerrors.Error) {
	result, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to zcard `%s`", key),
		)
	}

	return result, nil
}

// ZRange returns members of the sorted set at key within index range [start, stop].
func (r *Redis) ZRange(ctx context.Context, key string, start, stop int64) ([]string, yaerrors.Error) {
	result, err := r.client.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to zrange `%s`", key),
		)
	}

	return result, nil
}

// ZScore returns the score of member in the sorted set at key.
func (r *Redis) ZScore(ctx context.Context, key string, member string) (float64, yaerrors.Error) {
	result, err := r.client.ZScore(ctx, key, member).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}

		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to zscore `%s`", key),
		)
	}

	return result, nil
}

// Expire sets a TTL on key.
func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) yaerrors.Error {
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to expire `%s`", key),
		)
	}

	return nil
}

// TTL returns the remaining time-to-live of key. A negative duration means
// the key has no TTL set or does not exist (see redis.Client.TTL semantics).
func (r *Redis) TTL(ctx context.Context, key string) (time.Duration, yaerrors.Error) {
	result, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to get ttl of `%s`", key),
		)
	}

	return result, nil
}

// SetNX sets key to value only if it does not already exist, with the given TTL.
func (r *Redis) SetNX(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) (bool, yaerrors.Error) {
	result, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[REDIS] failed to setnx `%s`", key),
		)
	}

	return result, nil
}

func (r *Redis) Ping(ctx context.Context) yaerrors.Error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[REDIS] failed to get `PONG`",
		)
	}

	return nil
}

func (r *Redis) Close() yaerrors.Error {
	if err := r.client.Close(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[REDIS] failed to close connection",
		)
	}

	return nil
}
