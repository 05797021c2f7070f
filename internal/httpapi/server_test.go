package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/canvas"
	"github.com/pixelcanvas/pixels/internal/config"
	"github.com/pixelcanvas/pixels/internal/httpapi"
	"github.com/pixelcanvas/pixels/internal/kv"
	"github.com/pixelcanvas/pixels/internal/moderation"
	"github.com/pixelcanvas/pixels/internal/store"
	"github.com/pixelcanvas/pixels/internal/token"
	"github.com/pixelcanvas/pixels/internal/yalogger"
)

const (
	testWidth  = 4
	testHeight = 3
)

type harness struct {
	server *httpapi.Server
	store  *store.Store
	auth   *token.Authorizer
}

func newHarness(t *testing.T, premods ...int64) *harness {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(mr.Close)

	redisClient := kv.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redisClient.Close() })

	s, yerr := store.OpenSQLite(":memory:")
	require.Nil(t, yerr)

	t.Cleanup(func() { _ = s.Close() })

	log := yalogger.NewBaseLogger(nil).NewLogger()

	mods := make(map[int64]struct{}, len(premods))
	for _, id := range premods {
		mods[id] = struct{}{}
	}

	c := canvas.New(s, redisClient, log, testWidth, testHeight, "test-sha")
	mod := moderation.New(s, c, redisClient, log, testWidth, testHeight, "")
	auth := token.NewAuthorizer(s, log, "test-secret", mods)
	cookie := token.NewCookie("test-secret")
	oauth := token.NewOAuth("", "", "", "", "", "http://localhost:8000", auth, cookie, log)

	cfg := &config.Config{
		Width:     testWidth,
		Height:    testHeight,
		GitSHA:    "test-sha",
		PutPixel:  config.RouteQuota{Amount: 100, RateLimit: 60, RateCooldown: 60},
		GetPixel:  config.RouteQuota{Amount: 100, RateLimit: 60, RateCooldown: 60},
		GetPixels: config.RouteQuota{Amount: 100, RateLimit: 60, RateCooldown: 60},
	}

	server := httpapi.NewServer(cfg, c, mod, auth, oauth, cookie, redisClient, log)

	return &harness{server: server, store: s, auth: auth}
}

func (h *harness) bearerFor(t *testing.T, userID int64) string {
	t.Helper()

	jwtToken, err := h.auth.ResetToken(context.Background(), userID)
	require.Nil(t, err)

	return "Bearer " + jwtToken
}

func TestSizeHandler(t *testing.T) {
	h := newHarness(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/size", nil)
	h.server.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testWidth, body["width"])
	assert.Equal(t, testHeight, body["height"])
}

func TestNotFoundHandler_ServesHTML(t *testing.T) {
	h := newHarness(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestCanvasPixel_RequiresAuth(t *testing.T) {
	h := newHarness(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/canvas/pixel?x=0&y=0", nil)
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCanvasPixel_GetAfterPut(t *testing.T) {
	h := newHarness(t)

	bearer := h.bearerFor(t, 1)

	putBody := `{"x":1,"y":1,"rgb":"ABCDEF"}`
	putReq := httptest.NewRequest(http.MethodPut, "/canvas/pixel", strings.NewReader(putBody))
	putReq.Header.Set("Authorization", bearer)
	putReq.Header.Set("Content-Type", "application/json")

	putRec := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/canvas/pixel?x=1&y=1", nil)
	getReq.Header.Set("Authorization", bearer)

	getRec := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var body map[string]any

	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &body))
	assert.Equal(t, "abcdef", body["rgb"])
}

func TestCanvasPixel_OutOfBoundsQuery(t *testing.T) {
	h := newHarness(t)

	bearer := h.bearerFor(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/canvas/pixel?x=999&y=0", nil)
	req.Header.Set("Authorization", bearer)

	rec := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCanvasPixel_InvalidColorIsUnprocessable(t *testing.T) {
	h := newHarness(t)

	bearer := h.bearerFor(t, 1)

	body := `{"x":0,"y":0,"rgb":"not-a-color"}`
	req := httptest.NewRequest(http.MethodPut, "/canvas/pixel", strings.NewReader(body))
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestModRoutes_RequireModerator(t *testing.T) {
	h := newHarness(t)

	bearer := h.bearerFor(t, 1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mod", nil)
	req.Header.Set("Authorization", bearer)
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestModRoutes_AllowModerator(t *testing.T) {
	h := newHarness(t, 1)

	bearer := h.bearerFor(t, 1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mod", nil)
	req.Header.Set("Authorization", bearer)
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetMod_PromotesUser(t *testing.T) {
	h := newHarness(t, 1)

	require.Nil(t, h.store.UpsertUserSalt(context.Background(), 2, "salt", false))

	bearer := h.bearerFor(t, 1)

	req := httptest.NewRequest(http.MethodPost, "/set_mod", strings.NewReader(`{"user_id":2}`))
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "successfully set user with user_id 2 to mod")
}

func TestShowToken_WithoutCookie(t *testing.T) {
	h := newHarness(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/show_token", nil)
	h.server.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "couldn't find your token")
}
