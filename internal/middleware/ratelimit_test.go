package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackrosenthal/myride-explorer/internal/middleware"
)

// TestLoginRateLimiter_AllowsWithinBurst verifies requests inside the burst
// pass through.
func TestLoginRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := middleware.NewLoginRateLimiter(60, 3)
	defer rl.Stop()
	h := rl.Middleware()(trivialHandler)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equalf(t, http.StatusOK, rec.Code, "request %d within burst", i+1)
	}
}

// TestLoginRateLimiter_ThrottlesBeyondBurst verifies the request after the
// burst is rejected with 429.
func TestLoginRateLimiter_ThrottlesBeyondBurst(t *testing.T) {
	rl := middleware.NewLoginRateLimiter(1, 2)
	defer rl.Stop()
	h := rl.Middleware()(trivialHandler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

// TestLoginRateLimiter_PerIPIsolation verifies one client exhausting its
// bucket does not throttle another address.
func TestLoginRateLimiter_PerIPIsolation(t *testing.T) {
	rl := middleware.NewLoginRateLimiter(1, 1)
	defer rl.Stop()
	h := rl.Middleware()(trivialHandler)

	first := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(httptest.NewRecorder(), first)

	blocked := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	blocked.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, blocked)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	other.RemoteAddr = "10.0.0.2:9999"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
