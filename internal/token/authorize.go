package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// saltBytes matches the original service's secrets.token_urlsafe(16), which
// yields a 22-character url-safe string.
const saltBytes = 16

// Authorizer decodes bearer tokens into AuthResults and mints fresh ones
// after an OAuth2 login, backed by the users table as the source of truth
// for ban state, moderator state, and the salt that invalidates old tokens.
type Authorizer struct {
	store  *store.Store
	log    yalogger.Logger
	secret string
	mods   map[int64]struct{}
}

// NewAuthorizer builds an Authorizer. mods is the allow-list loaded by
// LoadMods; it only affects newly-created users, matching the original
// service checking membership once at account-creation time.
func NewAuthorizer(s *store.Store, log yalogger.Logger, secret string, mods map[int64]struct{}) *Authorizer {
	return &Authorizer{store: s, log: log, secret: secret, mods: mods}
}

// Authorize decodes the Authorization header value (including the "Bearer "
// prefix) into an AuthResult.
func (a *Authorizer) Authorize(ctx context.Context, authorization string) (AuthResult, yaerrors.Error) {
	if authorization == "" {
		return AuthResult{Outcome: OutcomeNoToken}, nil
	}

	scheme, tok, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || tok == "" {
		return AuthResult{Outcome: OutcomeBadHeader}, nil
	}

	c, err := parse(a.secret, tok)
	if err != nil {
		return AuthResult{Outcome: OutcomeInvalid}, nil
	}

	user, found, serr := a.store.GetUser(ctx, c.UserID)
	if serr != nil {
		return AuthResult{}, serr.Wrap("token: authorize")
	}

	if !found || user.KeySalt != c.Salt {
		return AuthResult{Outcome: OutcomeInvalid}, nil
	}

	if user.IsBanned {
		return AuthResult{Outcome: OutcomeBanned, UserID: c.UserID}, nil
	}

	if user.IsMod {
		return AuthResult{Outcome: OutcomeModerator, UserID: c.UserID}, nil
	}

	return AuthResult{Outcome: OutcomeUser, UserID: c.UserID}, nil
}

// ResetToken rotates discordUserID's salt (creating the user if it does not
// exist yet) and mints a fresh bearer token for it, invalidating every token
// issued before this call.
func (a *Authorizer) ResetToken(ctx context.Context, discordUserID int64) (string, yaerrors.Error) {
	user, found, err := a.store.GetUser(ctx, discordUserID)
	if err != nil {
		return "", err.Wrap("token: reset token")
	}

	if found && user.IsBanned {
		return "", yaerrors.FromString(http.StatusForbidden, "token: user is banned")
	}

	salt, genErr := NewSalt()
	if genErr != nil {
		return "", yaerrors.FromError(http.StatusInternalServerError, genErr, "token: generate salt")
	}

	_, isMod := a.mods[discordUserID]

	if err := a.store.UpsertUserSalt(ctx, discordUserID, salt, isMod); err != nil {
		return "", err.Wrap("token: reset token")
	}

	return mint(a.secret, discordUserID, salt)
}

// NewSalt generates a fresh 16-byte URL-safe salt, matching the original
// service's secrets.token_urlsafe(16).
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
