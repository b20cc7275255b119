package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"activitiesui/internal/shared/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, cfg config.RateLimitConfig) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, cfg), mr
}

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 3,
		JourneyRequests: 2,
		SearchRequests:  1,
		HealthRequests:  10,
	}
}

func TestIsAllowedCountsWithinWindow(t *testing.T) {
	limiter, _ := newLimiter(t, testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)

	// other clients and other limit types have their own windows
	result, err = limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	result, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeHealth)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestWindowSlides(t *testing.T) {
	limiter, _ := newLimiter(t, testConfig())
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return start }
	ctx := context.Background()

	result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeSearch)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, _ = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeSearch)
	assert.False(t, result.Allowed)

	limiter.now = func() time.Time { return start.Add(61 * time.Second) }
	result, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeSearch)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestDisabledAndWhitelisted(t *testing.T) {
	cfg := testConfig()
	cfg.SearchRequests = 0
	cfg.WhitelistedIPs = []string{"10.9.9.9"}
	limiter, mr := newLimiter(t, cfg)

	result, err := limiter.IsAllowed(context.Background(), "10.9.9.9", RateLimitTypeSearch)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Empty(t, mr.Keys())

	limiter.config.Enabled = false
	result, err = limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeSearch)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRateLimitType(t *testing.T) {
	tests := []struct {
		method, path string
		want         RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodGet, "/metrics", RateLimitTypeHealth},
		{http.MethodGet, "/ui/prisoner-search", RateLimitTypeSearch},
		{http.MethodPost, "/appointments/create/:journeyId/check-answers", RateLimitTypeJourney},
		{http.MethodGet, "/appointments/create/:journeyId/check-answers", RateLimitTypeDefault},
		{http.MethodPost, "/attendance/activities/attendance", RateLimitTypeJourney},
		{http.MethodGet, "/", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path), tt.method+" "+tt.path)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.DefaultRequests = 1
	limiter, mr := newLimiter(t, cfg)

	r := gin.New()
	r.Use(Middleware(limiter))
	r.GET("/ui/thing", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ui/thing", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.5, 10.0.0.1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := get()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = get()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.True(t, mr.Exists("activities:ratelimit:192.168.1.5:default"))

	// a broken redis does not block requests
	mr.Close()
	rec = get()
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
