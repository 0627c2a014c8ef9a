// Package ratelimit implements per-client token bucket rate limiting.
//
// Buckets refill lazily at check time instead of running a timer per client,
// which keeps them cheap to hold in a process-wide map keyed by client ID.
package ratelimit

import (
	"sync"
	"time"
)

// BucketConfig holds the parameters of one token bucket.
type BucketConfig struct {
	// Size is the bucket capacity.
	Size int
	// RefillAmount is the number of tokens added per refill interval.
	RefillAmount int
	// RefillInterval is how often RefillAmount tokens are added.
	RefillInterval time.Duration
}

// Bucket is a lazily refilled token bucket. All methods serialize on an
// internal mutex so concurrent requests for the same client cannot lose
// updates and exceed the limit.
type Bucket struct {
	mu             sync.Mutex
	size           int
	refillAmount   int
	refillInterval time.Duration
	tokens         int
	lastRefill     time.Time
}

// NewBucket creates a full bucket with the given configuration.
func NewBucket(cfg BucketConfig) *Bucket {
	return &Bucket{
		size:           cfg.Size,
		refillAmount:   cfg.RefillAmount,
		refillInterval: cfg.RefillInterval,
		tokens:         cfg.Size,
		lastRefill:     time.Now(),
	}
}

// refill synthesizes tokens for the elapsed time since the last refill.
// The count is floored (no fractional tokens) and clamped to capacity.
// Callers must hold mu.
func (b *Bucket) refill(now time.Time) {
	if b.refillInterval <= 0 {
		return
	}

	elapsed := now.Sub(b.lastRefill)
	intervals := int(elapsed / b.refillInterval)
	if intervals <= 0 {
		return
	}

	b.tokens += intervals * b.refillAmount
	if b.tokens > b.size {
		b.tokens = b.size
	}

	// Advance by whole intervals only, keeping the fractional remainder
	// for the next refill.
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.refillInterval)
}

// CanConsume reports whether n tokens are available without deducting them.
func (b *Bucket) CanConsume(n int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	return b.tokens >= n
}

// GetTokens deducts n tokens if available after refill. Returns false and
// leaves the bucket unchanged when fewer than n tokens remain.
func (b *Bucket) GetTokens(n int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	if b.tokens < n {
		return false
	}

	b.tokens -= n
	return true
}

// Tokens returns the currently available token count after refill.
func (b *Bucket) Tokens() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	return b.tokens
}
