package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsBurstThenThrottles(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPS: 1, Burst: 2})
	defer rl.Stop()

	lim := rl.limiterFor("10.0.0.1")
	assert.True(t, lim.Allow())
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())
}

func TestRateLimiterSweepDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPS: 1, Burst: 1})
	defer rl.Stop()

	rl.limiterFor("10.0.0.1")
	rl.limiterFor("10.0.0.2")
	rl.mu.Lock()
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	rl.mu.Unlock()

	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	require.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiterStopDoesNotBlock(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPS: 1, Burst: 1})
	done := make(chan struct{})
	go func() {
		rl.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
}
