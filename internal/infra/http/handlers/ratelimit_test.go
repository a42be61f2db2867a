package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		result := rl.Check("client-a")
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result := rl.Check("client-a")
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.True(t, result.ResetAt.After(time.Now()))
}

func TestRateLimiterIsolatesFingerprints(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Check("client-a").Allowed)
	assert.False(t, rl.Check("client-a").Allowed)
	assert.True(t, rl.Check("client-b").Allowed)
}

func TestRateLimiterWindowExpiryReadmits(t *testing.T) {
	rl := NewRateLimiter(1, 30*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Check("client-a").Allowed)
	assert.False(t, rl.Check("client-a").Allowed)

	time.Sleep(40 * time.Millisecond)

	result := rl.Check("client-a")
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}
