package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// RateLimiter applies a fixed window per client address. Counters live in an
// expiring cache: an entry vanishes at its reset time, so the next request
// starts a fresh window, and the cache janitor evicts stale addresses.
//
// The check-then-increment pair is not atomic across concurrent requests
// from one address; the limiter is advisory, not a security boundary.
type RateLimiter struct {
	store       *cache.Cache
	maxRequests int
	window      time.Duration
	logger      *zap.Logger
}

// NewRateLimiter creates a limiter allowing maxRequests per window.
func NewRateLimiter(maxRequests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		store:       cache.New(window, 2*window),
		maxRequests: maxRequests,
		window:      window,
		logger:      logger,
	}
}

// Allow reports whether a request from addr fits in the current window. A
// rejected request does not increment the counter.
func (rl *RateLimiter) Allow(addr string) bool {
	if v, found := rl.store.Get(addr); found {
		if count, ok := v.(int); ok {
			if count >= rl.maxRequests {
				return false
			}
			if _, err := rl.store.IncrementInt(addr, 1); err == nil {
				return true
			}
		}
	}

	rl.store.Set(addr, 1, cache.DefaultExpiration)
	return true
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := c.ClientIP()
		if !rl.Allow(addr) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("ip", addr),
				zap.Int("max_requests", rl.maxRequests),
				zap.Duration("window", rl.window))
			abortWithError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
