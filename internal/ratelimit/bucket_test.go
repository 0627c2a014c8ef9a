package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketConsumeToExhaustion(t *testing.T) {
	// With a long refill interval, no tokens are synthesized during the test:
	// n consecutive GetTokens(1) calls leave exactly capacity-n tokens, and
	// the (capacity+1)'th call fails.
	bucket := NewBucket(BucketConfig{
		Size:           5,
		RefillAmount:   5,
		RefillInterval: time.Hour,
	})

	for i := 0; i < 5; i++ {
		require.True(t, bucket.GetTokens(1), "call %d should succeed", i+1)
		assert.Equal(t, 5-(i+1), bucket.Tokens())
	}

	assert.False(t, bucket.GetTokens(1))
	assert.Equal(t, 0, bucket.Tokens())
}

func TestBucketCanConsumeDoesNotDeduct(t *testing.T) {
	bucket := NewBucket(BucketConfig{
		Size:           2,
		RefillAmount:   2,
		RefillInterval: time.Hour,
	})

	assert.True(t, bucket.CanConsume(2))
	assert.True(t, bucket.CanConsume(2))
	assert.Equal(t, 2, bucket.Tokens())

	assert.False(t, bucket.CanConsume(3))
}

func TestBucketRefill(t *testing.T) {
	bucket := NewBucket(BucketConfig{
		Size:           10,
		RefillAmount:   2,
		RefillInterval: 10 * time.Millisecond,
	})

	require.True(t, bucket.GetTokens(10))
	assert.False(t, bucket.GetTokens(1))

	// After one interval, exactly RefillAmount tokens are available.
	time.Sleep(15 * time.Millisecond)
	assert.True(t, bucket.GetTokens(2))
	assert.False(t, bucket.GetTokens(1))
}

func TestBucketRefillIsFloored(t *testing.T) {
	bucket := NewBucket(BucketConfig{
		Size:           10,
		RefillAmount:   1,
		RefillInterval: time.Hour,
	})

	require.True(t, bucket.GetTokens(5))

	// A fraction of an interval synthesizes zero tokens, never a partial one.
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 5, bucket.Tokens())
}

func TestBucketRefillIsCapped(t *testing.T) {
	bucket := NewBucket(BucketConfig{
		Size:           3,
		RefillAmount:   100,
		RefillInterval: time.Millisecond,
	})

	require.True(t, bucket.GetTokens(1))

	// Waiting any duration never leaves tokens above capacity.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, bucket.Tokens())
}

func TestBucketConcurrentConsume(t *testing.T) {
	bucket := NewBucket(BucketConfig{
		Size:           100,
		RefillAmount:   100,
		RefillInterval: time.Hour,
	})

	var wg sync.WaitGroup
	granted := make(chan struct{}, 200)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if bucket.GetTokens(1) {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	// Exactly capacity grants under concurrent load, never more.
	assert.Equal(t, 100, len(granted))
	assert.Equal(t, 0, bucket.Tokens())
}

func TestLimiterPerClientBuckets(t *testing.T) {
	limiter := NewLimiter(BucketConfig{
		Size:           2,
		RefillAmount:   2,
		RefillInterval: time.Hour,
	})

	// Exhausting one client's bucket does not affect another client.
	assert.True(t, limiter.Allow("client-a", nil))
	assert.True(t, limiter.Allow("client-a", nil))
	assert.False(t, limiter.Allow("client-a", nil))

	assert.True(t, limiter.Allow("client-b", nil))
}

func TestLimiterClientSpecificConfig(t *testing.T) {
	limiter := NewLimiter(BucketConfig{
		Size:           100,
		RefillAmount:   100,
		RefillInterval: time.Hour,
	})

	cfg := &BucketConfig{
		Size:           1,
		RefillAmount:   1,
		RefillInterval: time.Hour,
	}

	assert.True(t, limiter.Allow("client-a", cfg))
	assert.False(t, limiter.Allow("client-a", cfg))
}

func TestLimiterReset(t *testing.T) {
	limiter := NewLimiter(BucketConfig{
		Size:           1,
		RefillAmount:   1,
		RefillInterval: time.Hour,
	})

	require.True(t, limiter.Allow("client-a", nil))
	require.False(t, limiter.Allow("client-a", nil))

	limiter.Reset("client-a")
	assert.True(t, limiter.Allow("client-a", nil))
}
