package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBuckets caps the number of tracked client IPs.
const maxBuckets = 100_000

// bucket is a per-IP token bucket.
type bucket struct {
	tokens     int
	lastFill   time.Time
	ratePerSec int
	burst      int
}

func (b *bucket) allow() bool {
	now := time.Now()
	refill := int(now.Sub(b.lastFill).Seconds() * float64(b.ratePerSec))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > b.burst {
			b.tokens = b.burst
		}
		b.lastFill = now
	}
	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// RateLimiter applies a token-bucket limit per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	burst   int
}

// NewRateLimiter creates a limiter allowing ratePerSec sustained requests
// with the given burst per IP. Stale buckets are evicted in the background
// until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    ratePerSec,
		burst:   burst,
	}
	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	const maxAge = 10 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.lastFill) > maxAge {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Handler returns the gin middleware. c.ClientIP() cannot be spoofed via
// X-Forwarded-For because the router disables trusted proxies.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		b, ok := rl.buckets[ip]
		if !ok {
			if len(rl.buckets) >= maxBuckets {
				rl.mu.Unlock()
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": gin.H{"code": "COMMON_005", "message": "too many clients"},
				})
				return
			}
			b = &bucket{
				tokens:     rl.burst,
				lastFill:   time.Now(),
				ratePerSec: rl.rate,
				burst:      rl.burst,
			}
			rl.buckets[ip] = b
		}
		allowed := b.allow()
		rl.mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "COMMON_005", "message": "rate limit exceeded"},
			})
			return
		}

		c.Next()
	}
}
