package moderation

import (
	"context"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// SetModOutcome is the result of promoting a user to moderator.
type SetModOutcome uint8

const (
	SetModNotFound SetModOutcome = iota
	SetModAlreadyMod
	SetModPromoted
)

// SetMod promotes userID to moderator, reporting whether it was already a
// moderator or did not exist rather than treating either as an error —
// matching the original endpoint's three-way message.
func (m *Moderator) SetMod(ctx context.Context, userID int64) (SetModOutcome, yaerrors.Error) {
	user, found, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err.Wrap("moderation: set mod")
	}

	if !found {
		return SetModNotFound, nil
	}

	if user.IsMod {
		return SetModAlreadyMod, nil
	}

	if _, err := m.store.SetMod(ctx, userID); err != nil {
		return 0, err.Wrap("moderation: set mod")
	}

	return SetModPromoted, nil
}
