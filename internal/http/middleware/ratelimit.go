// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the edge rate limiter: per-identity token buckets
// with opportunistic eviction of idle buckets. Campaign traffic has a
// particular shape that drives the keying: many targets sit behind one
// corporate mail gateway or proxy IP, so buckets are keyed by the target
// identity a tracking link carries when available, and only fall back to the
// client IP for requests that carry none (scans, group administration).
//
// Notes:
//   - The limiter is process-local. Running more than one instance means
//     per-instance limits; a shared store would be needed for global ones.
//   - Idempotent email replays bypass the limiter entirely (see
//     IdempotencyValidator); serving a replay costs no tokens.
//   - This is abuse and cost control, not authorization.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc maps a request to the identity that owns its token bucket. The
// returned key must be stable for the duration of the request.
type keyFunc func(*gin.Context) string

// KeyByTargetOrIP returns a keyFunc that buckets by the target identity
// carried in the tracking-link query string (userId), falling back to the
// client IP. Keys are namespaced ("target:tu-7" vs "ip:203.0.113.7") so a
// target id can never collide with an address.
//
// Bucketing by target keeps one click-happy recipient from starving the rest
// of a cohort that shares an egress IP.
func KeyByTargetOrIP() keyFunc {
	return func(c *gin.Context) string {
		if id := c.Query("userId"); id != "" {
			return "target:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

// bucket pairs a limiter with its last use, so idle entries can be evicted.
type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter enforces per-key token-bucket limits. Buckets are created on
// demand in a mutex-guarded map; idle ones are swept after a TTL during
// lookups, which bounds memory without a background goroutine.
//
// Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	sweepN  uint64
}

// sweepEvery is the number of lookups between idle-bucket sweeps.
const sweepEvery = 5000

// NewRateLimiter constructs a RateLimiter replenishing rps tokens per second
// with the given burst (values <= 0 are coerced to 1), keyed by keyFn.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     10 * time.Minute,
	}
}

// bucketFor returns the limiter for key, creating it if absent. Every
// sweepEvery lookups it first evicts buckets idle for >= ttl; the sweep runs
// before the fetch so a stale bucket is evicted even when it is the one being
// asked for.
func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.sweepN++
	if rl.sweepN >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.sweepN = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.seen = now
		lim := b.lim
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{lim: lim, seen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay of an already-completed send; replays are served without consuming
// tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the Gin middleware enforcing the limits. Denied requests
// get a 429 with the standard envelope and a minimal Retry-After:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "<uuid>",
//	  "code":       "rate_limited",
//	  "message":    "rate limit exceeded"
//	}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		if rl.bucketFor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
