package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is an in-memory token bucket per client IP
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.RWMutex
	r        rate.Limit // requests per second
	b        int        // burst size
}

// NewRateLimiter allows r requests per second per IP with bursts of b.
// Idle visitors are swept every minute until ctx is done.
func NewRateLimiter(ctx context.Context, r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}

	go rl.cleanupVisitors(ctx)

	return rl
}

// getVisitor returns the rate limiter for a given IP address
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.visitors[ip] = limiter
	}

	return limiter
}

// cleanupVisitors drops visitors whose bucket has refilled
func (rl *RateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, limiter := range rl.visitors {
		if limiter.Tokens() >= float64(rl.b) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) visitorCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.visitors)
}

// Middleware rate limits JSON endpoints, answering 429 with a JSON error
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded. Please try again later.",
		})
	})
}

// PageMiddleware rate limits server-rendered pages, answering 429 with the error page
func (rl *RateLimiter) PageMiddleware() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) {
		c.HTML(http.StatusTooManyRequests, "error.html", gin.H{
			"Title":   "Too many requests",
			"Message": "You are sending requests too quickly. Please wait a moment and try again.",
		})
		c.Abort()
	})
}

func (rl *RateLimiter) limit(reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			reject(c)
			return
		}
		c.Next()
	}
}
