package token

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// claims mirrors the original service's bare {id, salt} JWT payload: no
// expiry is set, since a token is invalidated by rotating the user's salt
// rather than by time.
type claims struct {
	UserID int64  `json:"id"`
	Salt   string `json:"salt"`

	jwt.RegisteredClaims
}

// mint signs a new bearer token for userID/salt using HS256.
func mint(secret string, userID int64, salt string) (string, yaerrors.Error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: userID, Salt: salt}).
		SignedString([]byte(secret))
	if err != nil {
		return "", yaerrors.FromError(http.StatusInternalServerError, err, "token: sign jwt")
	}

	return signed, nil
}

// parse verifies tokenString's signature and decodes its claims. Any
// failure — bad signature, wrong algorithm, malformed payload — collapses
// to a single error, since the caller only distinguishes "invalid" from
// "valid" (matching jose.JWTError's single failure mode in the original).
func parse(secret string, tokenString string) (*claims, error) {
	var c claims

	parsed, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token: invalid jwt: %w", err)
	}

	if !parsed.Valid {
		return nil, fmt.Errorf("token: invalid jwt")
	}

	return &c, nil
}
