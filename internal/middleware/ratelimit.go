package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-client limiter. Windows are one minute
// long and counters are swept lazily on access.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter builds a limiter allowing limit requests per minute per
// client IP. A non-positive limit disables limiting.
func NewRateLimiter(limit int) *RateLimiter {
	if limit <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:   limit,
		windows: make(map[string]*window),
	}
}

// Handler returns the gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "error_description": "Too many requests."})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		rl.windows[key] = &window{start: now, count: 1}
		rl.sweep(now)
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// sweep drops stale windows. Called with the lock held.
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.windows) < 1024 {
		return
	}
	for key, w := range rl.windows {
		if now.Sub(w.start) >= time.Minute {
			delete(rl.windows, key)
		}
	}
}
