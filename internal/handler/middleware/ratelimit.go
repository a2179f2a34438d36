package middleware

import (
	"net/http"
	"sync"

	"marketplace-booking/internal/handler/httperr"
	"marketplace-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller. Buckets idle for longer
// than IdleTTL are dropped by the cache janitor.
type RateLimiter struct {
	enabled  bool
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters *cache.Cache
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		enabled:  cfg.Enabled,
		limit:    rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		limiters: cache.New(cfg.IdleTTL, cfg.IdleTTL),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}
		if !rl.limiterFor(callerKey(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "rate limit exceeded", "code": httperr.CodeRateLimited},
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		rl.limiters.SetDefault(key, l)
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.SetDefault(key, l)
	return l
}

func callerKey(c *gin.Context) string {
	if id, ok := GetUserID(c); ok {
		return "user:" + id.String()
	}
	return "ip:" + c.ClientIP()
}
