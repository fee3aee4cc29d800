//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"car-rental-core/internal/pkg/config"
	testhttp "car-rental-core/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refills per second at 60 rpm")
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 1})
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	now = now.Add(limiterIdleTTL + time.Minute)
	rl.Allow("active")

	_, kept := rl.clients["idle"]
	assert.False(t, kept)
	assert.Len(t, rl.clients, 1)
}

// newLimitedRouter serves /ping behind rl. httptest requests arrive from
// 192.0.2.1, so trusting that peer makes its forwarding headers count.
func newLimitedRouter(t *testing.T, rl *RateLimiter, trusted []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	require.NoError(t, router.SetTrustedProxies(trusted))
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func ping(router *gin.Engine, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	router := newLimitedRouter(t, rl, []string{"192.0.2.1"})

	first := ping(router, "203.0.113.7")
	assert.Equal(t, http.StatusNoContent, first.Code)
	testhttp.AssertHeaders(t, first, map[string]string{"Retry-After": ""})

	rec := ping(router, "203.0.113.7")
	body := testhttp.AssertErrorResponse(t, rec, http.StatusTooManyRequests, "Too many requests")
	assert.Equal(t, "rate_limited", body.Code)
	testhttp.AssertHeaders(t, rec, map[string]string{"Retry-After": "1"})

	assert.Equal(t, http.StatusNoContent, ping(router, "198.51.100.2").Code, "a trusted proxy forwards distinct clients")
}

func TestRateLimiter_IgnoresForwardingHeadersFromUntrustedPeers(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	router := newLimitedRouter(t, rl, nil)

	assert.Equal(t, http.StatusNoContent, ping(router, "").Code)

	for _, spoofed := range []string{"203.0.113.7", "198.51.100.2", "10.9.8.7, 10.0.0.1"} {
		rec := ping(router, spoofed)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, "X-Forwarded-For %q must not open a new bucket", spoofed)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Real-IP", "203.0.113.50")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Len(t, rl.clients, 1)
	_, ok := rl.clients["192.0.2.1"]
	assert.True(t, ok, "bucket is keyed by the peer address")
}
