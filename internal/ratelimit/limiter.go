package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter holds one token bucket per client. Bucket creation is serialized
// per limiter; consumption serializes per bucket, so requests for different
// clients do not block each other.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucketEntry
	defaultCfg BucketConfig
}

// bucketEntry pairs a bucket with its last access time for stale eviction.
type bucketEntry struct {
	bucket     *Bucket
	lastAccess time.Time
}

// NewLimiter creates a Limiter that falls back to defaultCfg for clients
// without their own rate-limit configuration.
func NewLimiter(defaultCfg BucketConfig) *Limiter {
	return &Limiter{
		buckets:    make(map[string]*bucketEntry),
		defaultCfg: defaultCfg,
	}
}

// bucketFor returns the bucket for the client, creating it on first use.
// A nil cfg selects the limiter's default configuration.
func (l *Limiter) bucketFor(clientID string, cfg *BucketConfig) *Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.buckets[clientID]; ok {
		entry.lastAccess = time.Now()
		return entry.bucket
	}

	bucketCfg := l.defaultCfg
	if cfg != nil {
		bucketCfg = *cfg
	}

	entry := &bucketEntry{
		bucket:     NewBucket(bucketCfg),
		lastAccess: time.Now(),
	}
	l.buckets[clientID] = entry
	return entry.bucket
}

// Allow deducts one token from the client's bucket, creating the bucket on
// first use. A nil cfg selects the default configuration.
func (l *Limiter) Allow(clientID string, cfg *BucketConfig) bool {
	return l.bucketFor(clientID, cfg).GetTokens(1)
}

// AllowN deducts n tokens from the client's bucket.
func (l *Limiter) AllowN(clientID string, cfg *BucketConfig, n int) bool {
	return l.bucketFor(clientID, cfg).GetTokens(n)
}

// Remaining returns the client's available tokens, creating the bucket on
// first use.
func (l *Limiter) Remaining(clientID string, cfg *BucketConfig) int {
	return l.bucketFor(clientID, cfg).Tokens()
}

// Reset drops the client's bucket so the next request starts from a full
// bucket. Used when a client's rate-limit configuration changes.
func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, clientID)
}

// StartCleanup evicts buckets not accessed within maxIdle, checking every
// interval. Runs until the context is cancelled.
func (l *Limiter) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-maxIdle)
			l.mu.Lock()
			for clientID, entry := range l.buckets {
				if entry.lastAccess.Before(threshold) {
					delete(l.buckets, clientID)
				}
			}
			l.mu.Unlock()
		}
	}
}
