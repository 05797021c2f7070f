package token

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

// OAuth drives the authorization-code exchange against the configured
// identity provider and turns the resulting profile into a minted bearer
// token.
type OAuth struct {
	cfg     oauth2.Config
	userURL string
	auth    *Authorizer
	cookie  Cookie
	log     yalogger.Logger
}

// NewOAuth builds an OAuth helper. baseURL is this service's own public
// base URL, used to compute the redirect_uri the provider calls back into.
func NewOAuth(
	clientID, clientSecret, authURL, tokenURL, userURL, baseURL string,
	auth *Authorizer,
	cookie Cookie,
	log yalogger.Logger,
) *OAuth {
	return &OAuth{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
			RedirectURL: baseURL + "/callback",
			Scopes:      []string{"identify"},
		},
		userURL: userURL,
		auth:    auth,
		cookie:  cookie,
		log:     log,
	}
}

// CallbackOutcome classifies how the authorization-code exchange resolved.
type CallbackOutcome uint8

const (
	// CallbackOK means a fresh token was minted and cookie-wrapped.
	CallbackOK CallbackOutcome = iota
	// CallbackBadExchange means the code exchange or profile fetch failed.
	CallbackBadExchange
	// CallbackBanned means the resolved user is banned; no token is minted.
	CallbackBanned
)

// AuthorizeURL returns the URL the caller should be redirected to in order
// to start the login flow. Matching the original service, it carries no
// CSRF state parameter: the flow has no session to bind one to.
func (o *OAuth) AuthorizeURL() string {
	return o.cfg.AuthCodeURL("")
}

type providerUser struct {
	ID string `json:"id"`
}

// Callback exchanges an authorization code for the provider's access token,
// resolves the caller's provider user id, mints a fresh bearer token for
// it, and AES-wraps it for use as the short-lived /show_token cookie value.
// The cookie wrap is not an auth control — it only keeps a casually copied
// Set-Cookie header from being directly usable as a bearer token.
func (o *OAuth) Callback(ctx context.Context, code string) (string, CallbackOutcome, yaerrors.Error) {
	providerToken, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return "", CallbackBadExchange, yaerrors.FromError(http.StatusUnauthorized, err, "token: exchange oauth2 code")
	}

	client := o.cfg.Client(ctx, providerToken)

	resp, err := client.Get(o.userURL)
	if err != nil {
		return "", CallbackBadExchange, yaerrors.FromError(http.StatusUnauthorized, err, "token: fetch user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", CallbackBadExchange, yaerrors.FromString(http.StatusUnauthorized, "token: user info request failed")
	}

	var user providerUser

	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", CallbackBadExchange, yaerrors.FromError(http.StatusUnauthorized, err, "token: decode user info")
	}

	userID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return "", CallbackBadExchange, yaerrors.FromError(http.StatusUnauthorized, err, "token: parse provider user id")
	}

	jwtToken, yerr := o.auth.ResetToken(ctx, userID)
	if yerr != nil {
		if yerr.Code() == http.StatusForbidden {
			return "", CallbackBanned, nil
		}

		return "", CallbackBadExchange, yerr.Wrap("token: callback")
	}

	cookieValue, yerr := o.cookie.Wrap(jwtToken)
	if yerr != nil {
		return "", CallbackBadExchange, yerr.Wrap("token: callback")
	}

	return cookieValue, CallbackOK, nil
}
