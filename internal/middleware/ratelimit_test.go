package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(window time.Duration, clock *time.Time) *rateLimiter {
	return &rateLimiter{
		window:        window,
		last:          make(map[string]time.Time),
		sweepInterval: 10 * window,
		now:           func() time.Time { return *clock },
	}
}

func turnRequest(path string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", path, nil)
	return c
}

func TestRateLimiterSecondRequestInWindowAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := time.Now()
	limiter := newTestLimiter(10*time.Second, &clock)

	first := turnRequest("/api/v1/interviews/abc/turns")
	limiter.handle(first)
	require.False(t, first.IsAborted())

	second := turnRequest("/api/v1/interviews/abc/turns")
	limiter.handle(second)
	require.True(t, second.IsAborted())
}

func TestRateLimiterDistinctPathsIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := time.Now()
	limiter := newTestLimiter(10*time.Second, &clock)

	limiter.handle(turnRequest("/api/v1/interviews/abc/turns"))
	finish := turnRequest("/api/v1/interviews/abc/finish")
	limiter.handle(finish)
	require.False(t, finish.IsAborted())
}

func TestRateLimiterAllowsAfterWindowElapses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := time.Now()
	limiter := newTestLimiter(10*time.Second, &clock)

	limiter.handle(turnRequest("/api/v1/interviews/abc/turns"))
	clock = clock.Add(11 * time.Second)

	again := turnRequest("/api/v1/interviews/abc/turns")
	limiter.handle(again)
	require.False(t, again.IsAborted())
}

func TestRateLimiterSweepDropsStaleEntries(t *testing.T) {
	clock := time.Now()
	limiter := newTestLimiter(10*time.Second, &clock)
	limiter.last["stale"] = clock.Add(-time.Minute)
	limiter.last["fresh"] = clock.Add(-time.Second)

	limiter.mu.Lock()
	limiter.cleanupExpiredLocked(clock)
	limiter.mu.Unlock()

	require.NotContains(t, limiter.last, "stale")
	require.Contains(t, limiter.last, "fresh")
	require.Equal(t, clock, limiter.lastSweep)
}
