package middleware

import (
	"sync"
	"time"

	"collabuu-backend/apperr"

	"github.com/gin-gonic/gin"
)

type rateLimitEntry struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter is a per-key token bucket. Scan routes key it by principal so
// one account cannot brute-force codes from many addresses.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*rateLimitEntry
	maxTokens  float64
	refillRate float64 // tokens per second
	idle       time.Duration
}

// NewRateLimiter allows maxRequests per perDuration, with bursts up to maxRequests.
func NewRateLimiter(maxRequests int, perDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:    make(map[string]*rateLimitEntry),
		maxTokens:  float64(maxRequests),
		refillRate: float64(maxRequests) / perDuration.Seconds(),
		idle:       10 * time.Minute,
	}
	if perDuration > rl.idle {
		rl.idle = perDuration
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.evict(time.Now())
	}
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.clients {
		if now.Sub(entry.lastCheck) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.clients[key]

	if !exists {
		rl.clients[key] = &rateLimitEntry{
			tokens:    rl.maxTokens - 1,
			lastCheck: now,
		}
		return true
	}

	elapsed := now.Sub(entry.lastCheck).Seconds()
	entry.tokens += elapsed * rl.refillRate
	if entry.tokens > rl.maxTokens {
		entry.tokens = rl.maxTokens
	}
	entry.lastCheck = now

	if entry.tokens >= 1 {
		entry.tokens--
		return true
	}

	return false
}

// Middleware limits by authenticated principal, falling back to client IP on
// public routes.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if p := CurrentPrincipal(c); p != nil {
			key = "principal:" + p.ID
		}
		if !rl.allow(key) {
			abortWithError(c, apperr.RateLimited("Too many requests. Please try again later."))
			return
		}
		c.Next()
	}
}
