package limits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandRateLimiterAllowsWithinBurst(t *testing.T) {
	l := NewCommandRateLimiter(10)
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(1), "call %d should be within burst", i)
	}
}

func TestCommandRateLimiterRejectsBeyondBurst(t *testing.T) {
	l := NewCommandRateLimiter(1)
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1), "second immediate call should exceed the 1/sec budget")
}

func TestCommandRateLimiterTracksClientsIndependently(t *testing.T) {
	l := NewCommandRateLimiter(1)
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(2), "a different client token must have its own budget")
}

func TestCommandRateLimiterForgetDropsState(t *testing.T) {
	l := NewCommandRateLimiter(1)
	l.Allow(1)
	l.Forget(1)

	assert.Len(t, l.limiters, 0)
}

func TestNewCommandRateLimiterDefaultsNonPositiveRate(t *testing.T) {
	l := NewCommandRateLimiter(0)
	assert.Equal(t, 1000, l.burst)
}
