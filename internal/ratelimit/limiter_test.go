package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterCleanupEvictsIdleBuckets(t *testing.T) {
	limiter := NewLimiter(BucketConfig{
		Size:           1,
		RefillAmount:   1,
		RefillInterval: time.Hour,
	})

	// Exhaust the bucket so eviction is observable: a fresh bucket allows
	// the next request again.
	require.True(t, limiter.Allow("client-a", nil))
	require.False(t, limiter.Allow("client-a", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		limiter.StartCleanup(ctx, 5*time.Millisecond, 10*time.Millisecond)
	}()

	// After the idle window passes the bucket is dropped, so the next
	// request starts from a full bucket.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, limiter.Allow("client-a", nil))

	cancel()
	<-done
}

func TestLimiterCleanupKeepsActiveBuckets(t *testing.T) {
	limiter := NewLimiter(BucketConfig{
		Size:           2,
		RefillAmount:   2,
		RefillInterval: time.Hour,
	})

	require.True(t, limiter.Allow("client-a", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		limiter.StartCleanup(ctx, 5*time.Millisecond, time.Hour)
	}()

	// The bucket stays within maxIdle, so its remaining count persists
	// across cleanup cycles.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, limiter.Remaining("client-a", nil))

	cancel()
	<-done
}
