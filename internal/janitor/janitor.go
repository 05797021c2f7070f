// Package janitor runs the background sweep that clears orphaned rate-limit
// keys. Redis TTL already expires cooldown-* and interaction-* keys on its
// own; the janitor exists for the keys a crashed bucket-clear operation left
// behind without a TTL.
package janitor

import (
	"context"
	"time"

	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/yabackoff"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// SweepInterval matches the original service's 5-minute cleanup cadence.
const SweepInterval = 5 * time.Minute

// Janitor periodically sweeps orphaned rate-limit keys from Redis.
type Janitor struct {
	redis *kv.Redis
	log   yalogger.Logger
}

// New builds a Janitor.
func New(redis *kv.Redis, log yalogger.Logger) *Janitor {
	return &Janitor{redis: redis, log: log}
}

// Run sweeps every SweepInterval until ctx is cancelled. A sweep failure is
// logged and the loop restarts after an exponential backoff instead of
// dying outright, mirroring the original service's log-sleep-restart
// behavior on an unhandled exception.
func (j *Janitor) Run(ctx context.Context) {
	backoff := yabackoff.NewExponential(time.Second, 0, SweepInterval, 0)

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.sweep(ctx); err != nil {
				j.log.WithField("error", err.Error()).Error("janitor: sweep failed, backing off")

				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff.Next()):
				}

				continue
			}

			backoff.Reset()
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) error {
	client := j.redis.Raw()

	var (
		cursor  uint64
		removed int
	)

	for _, pattern := range []string{"cooldown-*", "interaction-*"} {
		cursor = 0

		for {
			keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return err
			}

			for _, key := range keys {
				ttl, err := client.TTL(ctx, key).Result()
				if err != nil {
					continue
				}

				// A negative TTL with no expiry set means a crashed
				// bucket-clear left this key behind; a live rate-limit key
				// always carries a TTL. Clear it.
				if ttl < 0 {
					if err := client.Del(ctx, key).Err(); err == nil {
						removed++
					}
				}
			}

			cursor = next

			if cursor == 0 {
				break
			}
		}
	}

	if removed > 0 {
		j.log.WithField("removed", removed).Info("janitor: swept orphaned rate-limit keys")
	}

	return nil
}
