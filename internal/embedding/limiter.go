package embedding

import (
	"context"
	"sync"
	"time"
)

// tokenBucket throttles provider requests to a steady rate with a bounded burst.
type tokenBucket struct {
	capacity   int       // Maximum tokens (burst capacity)
	refillRate float64   // Tokens per second
	tokens     float64   // Current tokens available
	lastRefill time.Time // Last time tokens were refilled
	mu         sync.Mutex
}

// newRateLimiter returns a bucket allowing requestsPerMinute with a burst of a tenth of that,
// or nil when requestsPerMinute is 0 (unlimited).
func newRateLimiter(requestsPerMinute int) *tokenBucket {
	if requestsPerMinute <= 0 {
		return nil
	}
	return newTokenBucket(max(1, requestsPerMinute/10), float64(requestsPerMinute)/60)
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity), // Start with full bucket
		lastRefill: time.Now(),
	}
}

// reserve consumes a token if one is available and returns 0, otherwise it returns how long
// until the next token.
func (tb *tokenBucket) reserve() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return 0
	}
	missing := 1.0 - tb.tokens
	return time.Duration(missing / tb.refillRate * float64(time.Second))
}

// Wait blocks until a token is available or ctx is done. A nil bucket never blocks.
func (tb *tokenBucket) Wait(ctx context.Context) error {
	if tb == nil {
		return nil
	}
	for {
		delay := tb.reserve()
		if delay == 0 {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
