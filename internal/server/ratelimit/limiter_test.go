package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedClockLimiter(size time.Duration, max int) (*Limiter, *time.Time) {
	l := New(size, max)
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_UpToMaxThenDenied(t *testing.T) {
	l, _ := newFixedClockLimiter(900*time.Second, 30)

	for i := 0; i < 30; i++ {
		allowed, _ := l.Allow("10.0.0.1", "auth")
		require.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter := l.Allow("10.0.0.1", "auth")
	assert.False(t, allowed, "request 31 must be denied")
	assert.Equal(t, 900*time.Second, retryAfter)
}

func TestAllow_WindowResets(t *testing.T) {
	l, now := newFixedClockLimiter(900*time.Second, 2)

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("k", "auth")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("k", "auth")
	require.False(t, allowed)

	*now = now.Add(901 * time.Second)

	allowed, _ = l.Allow("k", "auth")
	assert.True(t, allowed, "first request of a fresh window must pass")
}

func TestAllow_RetryAfterShrinksWithinWindow(t *testing.T) {
	l, now := newFixedClockLimiter(100*time.Second, 1)

	allowed, _ := l.Allow("k", "auth")
	require.True(t, allowed)

	*now = now.Add(40 * time.Second)
	allowed, retryAfter := l.Allow("k", "auth")
	require.False(t, allowed)
	assert.Equal(t, 60*time.Second, retryAfter)
}

func TestAllow_KeysAndGroupsAreIndependent(t *testing.T) {
	l, _ := newFixedClockLimiter(time.Minute, 1)

	allowed, _ := l.Allow("a", "auth")
	require.True(t, allowed)

	// Different client, same group.
	allowed, _ = l.Allow("b", "auth")
	assert.True(t, allowed)

	// Same client, different group.
	allowed, _ = l.Allow("a", "profile")
	assert.True(t, allowed)

	// Same pair again, over the max.
	allowed, _ = l.Allow("a", "auth")
	assert.False(t, allowed)
}

func TestAllow_ConcurrentRequestsNeverExceedMax(t *testing.T) {
	const max = 100
	const attempts = 250

	l := New(time.Minute, max)

	var allowedCount int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("shared", "auth"); ok {
				atomic.AddInt64(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(max), allowedCount)
}
