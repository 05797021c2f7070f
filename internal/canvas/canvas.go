// Package canvas implements the two-tier cache coherence engine: the
// relational pixel_history table is authoritative, and a flat RGB buffer
// kept in Redis is a derived, hot read path rebuilt whenever it falls
// behind. Keeping the two in sync across many server processes is the
// package's entire job.
package canvas

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// lockDeadlockTimeout is how long a sync_lock can be held before another
// waiter considers it abandoned and steals it.
const lockDeadlockTimeout = 10 * time.Second

// lockPollInterval is how often a waiter re-checks whether the lock holder
// finished.
const lockPollInterval = 100 * time.Millisecond

// Canvas coordinates reads and writes against the flat cache buffer, falling
// back to a rebuild from pixel_history whenever the buffer is missing,
// wrong-sized, or stale relative to history.
type Canvas struct {
	store  *store.Store
	redis  *kv.Redis
	log    yalogger.Logger
	width  int
	height int
	key    string
}

// New builds a Canvas sized width x height, deriving its Redis key from
// gitSHA so a new deployment never adopts a stale buffer left by an older one.
func New(s *store.Store, redis *kv.Redis, log yalogger.Logger, width, height int, gitSHA string) *Canvas {
	return &Canvas{
		store:  s,
		redis:  redis,
		log:    log,
		width:  width,
		height: height,
		key:    fmt.Sprintf("%s-canvas-cache", gitSHA),
	}
}

// GetPixels returns a copy of the whole flat RGB buffer, syncing it first if stale.
func (c *Canvas) GetPixels(ctx context.Context) ([]byte, yaerrors.Error) {
	if err := c.SyncCache(ctx, false); err != nil {
		return nil, err.Wrap("get pixels")
	}

	raw, err := c.redis.Get(ctx, c.key)
	if err != nil {
		return nil, err.Wrap("get pixels")
	}

	return []byte(raw), nil
}

// GetPixel returns the 3-byte RGB value at (x, y), syncing the cache first if stale.
func (c *Canvas) GetPixel(ctx context.Context, x, y int) ([]byte, yaerrors.Error) {
	if err := c.SyncCache(ctx, false); err != nil {
		return nil, err.Wrap("get pixel")
	}

	position := int64(y*c.width+x) * 3

	pixel, err := c.redis.GetRange(ctx, c.key, position, position+2)
	if err != nil {
		return nil, err.Wrap("get pixel")
	}

	return pixel, nil
}

// SetPixel ensures the cache is fresh, appends the placement to history, and
// patches the 3-byte region in place rather than forcing a full rebuild.
func (c *Canvas) SetPixel(ctx context.Context, x, y int, rgb string, userID int64) yaerrors.Error {
	if err := c.SyncCache(ctx, false); err != nil {
		return err.Wrap("set pixel")
	}

	if err := c.store.InsertPixel(ctx, x, y, rgb, userID); err != nil {
		return err.Wrap("set pixel")
	}

	position := int64(y*c.width+x) * 3

	raw, decodeErr := hexToRGB(rgb)
	if decodeErr != nil {
		return yaerrors.FromError(
			http.StatusUnprocessableEntity,
			decodeErr,
			fmt.Sprintf("set pixel: bad rgb %q", rgb),
		)
	}

	if err := c.redis.SetRange(ctx, c.key, position, raw); err != nil {
		return err.Wrap("set pixel")
	}

	// The buffer was just patched to match history, so the cache is
	// up-to-date without a full rebuild: record that directly.
	if err := c.store.MarkSynced(ctx); err != nil {
		return err.Wrap("set pixel")
	}

	return nil
}

// ForceRebuild unconditionally rebuilds the flat buffer from history, used
// after a moderator ban cascade invalidates an unknown set of pixels.
func (c *Canvas) ForceRebuild(ctx context.Context) yaerrors.Error {
	return c.SyncCache(ctx, true)
}

// SyncCache brings the flat buffer up to date with pixel_history. When
// skipCheck is true it rebuilds unconditionally; otherwise it rebuilds only
// if the buffer is missing, wrong-sized, or stale.
//
// Coherence across processes uses cache_state as a spinlock: whichever
// process flips sync_lock from NULL to now() owns the rebuild. A lock held
// longer than lockDeadlockTimeout is considered abandoned by a crashed
// worker and stolen by the next poller.
func (c *Canvas) SyncCache(ctx context.Context, skipCheck bool) yaerrors.Error {
	lockCleared := false

	for {
		if !skipCheck && !lockCleared {
			outOfDate, err := c.isOutOfDate(ctx)
			if err != nil {
				return err.Wrap("sync cache")
			}

			if !outOfDate {
				return nil
			}
		}

		acquired, err := c.store.TryAcquireSyncLock(ctx)
		if err != nil {
			return err.Wrap("sync cache")
		}

		if acquired || lockCleared {
			lockCleared = false
			skipCheck = false

			rebuildErr := c.rebuild(ctx)

			if releaseErr := c.store.ReleaseSyncLock(ctx); releaseErr != nil {
				if rebuildErr != nil {
					return rebuildErr.Wrap("sync cache: rebuild then release both failed")
				}

				return releaseErr.Wrap("sync cache: release lock")
			}

			if rebuildErr != nil {
				return rebuildErr.Wrap("sync cache")
			}

			return nil
		}

		c.log.Debug("sync lock in use, waiting for holder to finish")

		lockCleared, err = c.waitForLock(ctx)
		if err != nil {
			return err.Wrap("sync cache")
		}
	}
}

// waitForLock polls cache_state until sync_lock clears naturally, or steals
// it if it looks deadlocked. Returns true if this call is the one that
// stole the lock (the caller should immediately attempt a rebuild).
func (c *Canvas) waitForLock(ctx context.Context) (bool, yaerrors.Error) {
	for {
		state, err := c.store.GetCacheState(ctx)
		if err != nil {
			return false, err.Wrap("wait for lock")
		}

		if state.SyncLock == nil {
			return false, nil
		}

		stole, err := c.store.StealDeadlockedLock(ctx, lockDeadlockTimeout)
		if err != nil {
			return false, err.Wrap("wait for lock")
		}

		if stole {
			c.log.Warn("sync lock considered deadlocked, clearing it")

			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, yaerrors.FromError(
				http.StatusGatewayTimeout,
				ctx.Err(),
				"wait for lock: context cancelled",
			)
		case <-time.After(lockPollInterval):
		}
	}
}

// isOutOfDate reports whether the buffer needs a rebuild: either it has the
// wrong length (missing, or the canvas size changed) or history has moved
// past the last synced point.
func (c *Canvas) isOutOfDate(ctx context.Context) (bool, yaerrors.Error) {
	length, err := c.redis.Len(ctx, c.key)
	if err != nil {
		return false, err.Wrap("is out of date")
	}

	if length != int64(c.width*c.height*3) {
		return true, nil
	}

	state, err := c.store.GetCacheState(ctx)
	if err != nil {
		return false, err.Wrap("is out of date")
	}

	return state.LastModified.After(state.LastSynced), nil
}

// rebuild loads every current pixel from history into a fresh buffer and
// replaces the cache wholesale, then records the sync. The rows are read in
// full before the buffer is filled; they are not streamed.
func (c *Canvas) rebuild(ctx context.Context) yaerrors.Error {
	start := time.Now()

	rows, err := c.store.CurrentPixels(ctx, c.width, c.height)
	if err != nil {
		return err.Wrap("rebuild")
	}

	buf := make([]byte, c.width*c.height*3)

	for i := range buf {
		buf[i] = 0xFF // default background is white
	}

	for _, row := range rows {
		rgb, decodeErr := hexToRGB(row.RGB)
		if decodeErr != nil {
			return yaerrors.FromError(
				http.StatusInternalServerError,
				decodeErr,
				fmt.Sprintf("rebuild: bad stored rgb %q at (%d,%d)", row.RGB, row.X, row.Y),
			)
		}

		position := (row.Y*c.width + row.X) * 3
		copy(buf[position:position+3], rgb)
	}

	if err := c.redis.Set(ctx, c.key, buf); err != nil {
		return err.Wrap("rebuild")
	}

	if err := c.store.MarkSynced(ctx); err != nil {
		return err.Wrap("rebuild")
	}

	c.log.Infof("canvas cache rebuilt in %s", time.Since(start))

	return nil
}
