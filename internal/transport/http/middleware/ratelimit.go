package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	retryAfter string
	idle       time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
func NewRateLimiter(perMinute, burst int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(float64(perMinute) / 60.0),
		burst: burst,
		// Seconds until one token is refilled, rounded up.
		retryAfter: strconv.Itoa((60 + perMinute - 1) / perMinute),
		idle:       10 * time.Minute,
		logger:     logger.With("component", "rate_limiter"),
		limiters:   make(map[string]*ipLimiter),
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.get(ip).Allow() {
			c.Next()
			return
		}

		rl.logger.WarnContext(c.Request.Context(), "rate limit exceeded", "ip", ip, "path", c.FullPath())
		c.Header("Retry-After", rl.retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}
}

// Start evicts idle limiters until ctx is done.
func (rl *RateLimiter) Start(ctx context.Context) {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

// Len reports how many IPs are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastAccess = time.Now()
	return l.limiter
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, l := range rl.limiters {
		if now.Sub(l.lastAccess) > rl.idle {
			delete(rl.limiters, ip)
		}
	}
}
