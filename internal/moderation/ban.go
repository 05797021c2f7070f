package moderation

import (
	"context"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// BanResult reports which of the requested user ids were actually banned
// (i.e. existed) and which were not found.
type BanResult struct {
	Banned   []int64
	NotFound []int64
}

// Ban marks every user in userIDs as banned, deletes their pixel history,
// and forces an immediate canvas cache rebuild so the effect is visible
// right away instead of waiting for the next natural sync.
func (m *Moderator) Ban(ctx context.Context, userIDs []int64) (BanResult, yaerrors.Error) {
	banned, err := m.store.BanUsers(ctx, userIDs)
	if err != nil {
		return BanResult{}, err.Wrap("moderation: ban users")
	}

	if len(banned) > 0 {
		if err := m.store.BanCascade(ctx, banned); err != nil {
			return BanResult{}, err.Wrap("moderation: ban cascade")
		}

		if err := m.canvas.ForceRebuild(ctx); err != nil {
			return BanResult{}, err.Wrap("moderation: rebuild canvas after ban")
		}
	}

	return BanResult{
		Banned:   banned,
		NotFound: missing(userIDs, banned),
	}, nil
}

func missing(requested, present []int64) []int64 {
	inPresent := make(map[int64]struct{}, len(present))

	for _, id := range present {
		inPresent[id] = struct{}{}
	}

	var absent []int64

	seen := make(map[int64]struct{}, len(requested))

	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		if _, ok := inPresent[id]; !ok {
			absent = append(absent, id)
		}
	}

	return absent
}
