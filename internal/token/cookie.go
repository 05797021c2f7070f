package token

import (
	"encoding/base64"
	"net/http"

	"github.com/pixelcanvas/pixels/internal/yacrypto"
	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

const (
	// CookieName is the name of the short-lived cookie set after /callback.
	CookieName = "token"
	// CookieMaxAgeSeconds matches the original service's 10-second cookie
	// lifetime: just long enough for the browser to follow the redirect to
	// /show_token before the page is refreshed.
	CookieMaxAgeSeconds = 10
	// CookiePath restricts the cookie to the one route that reads it.
	CookiePath = "/show_token"
)

// Cookie encrypts the minted bearer token before it is handed to the
// browser, so a copied Set-Cookie header without the service's secret is
// useless even during the short window it lives for.
type Cookie struct {
	cipher yacrypto.AES
}

// NewCookie derives the cookie cipher from secret.
func NewCookie(secret string) Cookie {
	return Cookie{cipher: yacrypto.New(secret)}
}

// Wrap encrypts token and encodes it for use as a cookie value.
func (c Cookie) Wrap(tok string) (string, yaerrors.Error) {
	encrypted, err := c.cipher.Encrypt([]byte(tok))
	if err != nil {
		return "", err.Wrap("token: wrap cookie")
	}

	return base64.URLEncoding.EncodeToString(encrypted), nil
}

// Unwrap decodes and decrypts a cookie value back into the bearer token.
func (c Cookie) Unwrap(value string) (string, yaerrors.Error) {
	raw, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return "", yaerrors.FromError(http.StatusBadRequest, err, "token: decode cookie")
	}

	decrypted, yerr := c.cipher.Decrypt(raw)
	if yerr != nil {
		return "", yerr.Wrap("token: unwrap cookie")
	}

	return string(decrypted), nil
}
