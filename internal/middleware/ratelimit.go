package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/stockpulse/pkg/errors"
	"github.com/charlesng35/stockpulse/pkg/response"
)

// ErrRateLimited is returned when a caller exceeds its request budget.
var ErrRateLimited = errors.New("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)

// RateLimiter counts requests per key within fixed windows.
type RateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	data   map[string]*rateCounter
}

type rateCounter struct {
	count     int
	windowEnd time.Time
}

// NewRateLimiter builds an in-memory limiter allowing limit requests per window.
// A non-positive limit or window disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:    limit,
		window: window,
		now:    time.Now,
		data:   make(map[string]*rateCounter),
	}
}

// Allow records one request for key and reports whether it fits the budget,
// along with the remaining budget and time until the window resets.
func (l *RateLimiter) Allow(key string) (bool, int, time.Duration) {
	if l.max <= 0 || l.window <= 0 {
		return true, l.max, 0
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, v := range l.data {
		if now.After(v.windowEnd) {
			delete(l.data, k)
		}
	}

	ct, ok := l.data[key]
	if !ok {
		ct = &rateCounter{windowEnd: now.Add(l.window)}
		l.data[key] = ct
	}
	ct.count++

	remaining := l.max - ct.count
	if remaining < 0 {
		remaining = 0
	}
	return ct.count <= l.max, remaining, ct.windowEnd.Sub(now)
}

// RateLimit limits requests per authenticated user and route, falling back to
// the client IP for anonymous callers.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		subject := c.GetString(CtxUserIDKey)
		if subject == "" {
			subject = c.ClientIP()
		}

		allowed, remaining, resetIn := limiter.Allow(subject + "|" + c.FullPath())
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(resetIn.Seconds())))

		if !allowed {
			response.Error(c, ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
