package limits

import (
	"sync"

	"golang.org/x/time/rate"
)

// CommandRateLimiter throttles command throughput per connected client,
// the same token-bucket shape ConnectionRateLimiter uses for accepts,
// generalized from per-IP to per-client-token.
//
// Unlike connection admission, a client that exceeds its command budget is
// not disconnected: a single RESP error is returned for the offending
// command and the connection stays open, matching canonical Redis client
// behavior (a flaky client shouldn't lose its session over one burst).
type CommandRateLimiter struct {
	mu       sync.Mutex
	limiters map[uint64]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewCommandRateLimiter builds a limiter allowing ratePerSec sustained
// commands per client with a short burst allowance.
func NewCommandRateLimiter(ratePerSec int) *CommandRateLimiter {
	if ratePerSec <= 0 {
		ratePerSec = 1000
	}
	return &CommandRateLimiter{
		limiters: make(map[uint64]*rate.Limiter),
		rate:     rate.Limit(ratePerSec),
		burst:    ratePerSec,
	}
}

// Allow reports whether a command from the given client token may proceed.
func (c *CommandRateLimiter) Allow(token uint64) bool {
	c.mu.Lock()
	l, ok := c.limiters[token]
	if !ok {
		l = rate.NewLimiter(c.rate, c.burst)
		c.limiters[token] = l
	}
	c.mu.Unlock()
	return l.Allow()
}

// Forget drops the limiter state for a disconnected client, preventing
// unbounded growth of the limiter map over the server's lifetime.
func (c *CommandRateLimiter) Forget(token uint64) {
	c.mu.Lock()
	delete(c.limiters, token)
	c.mu.Unlock()
}
