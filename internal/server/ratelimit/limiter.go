// Package ratelimit bounds request frequency per client key on the
// credential routes using a fixed-window counter held in process memory.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type window struct {
	count int
	start time.Time
}

// Limiter counts requests per (clientKey, routeGroup) pair within a fixed
// window. The first request of a window (or of an expired window) always
// passes and restarts the count; once count exceeds max, further requests
// are denied until the window elapses. State is single-process only.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	size    time.Duration
	max     int
	now     func() time.Time
}

// New creates a Limiter with the given window size and per-window maximum.
func New(size time.Duration, max int) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		size:    size,
		max:     max,
		now:     time.Now,
	}
}

// Allow records one request for the pair and reports whether it may proceed.
// When denied, retryAfter is the time remaining until the window resets.
// The read-compare-increment sequence runs under one lock, so two requests
// racing for the last slot can never both pass.
func (l *Limiter) Allow(clientKey, routeGroup string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := routeGroup + "|" + clientKey
	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.size {
		l.windows[key] = &window{count: 1, start: now}
		return true, 0
	}

	w.count++
	if w.count > l.max {
		return false, w.start.Add(l.size).Sub(now)
	}
	return true, 0
}

// Middleware returns a gin handler enforcing the limit for routeGroup,
// keyed by client IP. Denials answer 429 with a Retry-After header and a
// structured body distinct from other 4xx responses.
func (l *Limiter) Middleware(routeGroup string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.ClientIP(), routeGroup)
		if !allowed {
			seconds := int64(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.FormatInt(seconds, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":    "Too many requests, please try again later",
				"retryAfter": seconds,
			})
			return
		}
		c.Next()
	}
}
