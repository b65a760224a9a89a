// Package ratelimit paces outbound requests with one token bucket per key.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent limiter, created on first use.
type KeyedRateLimiter[K comparable] struct {
	mu       sync.RWMutex
	limiters map[K]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed rate limiter allowing rps requests per second per key
// with bursts of up to burst requests.
func New[K comparable](rps float64, burst int) *KeyedRateLimiter[K] {
	return &KeyedRateLimiter[K]{
		limiters: make(map[K]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request for key may proceed now, consuming a token if so.
func (krl *KeyedRateLimiter[K]) Allow(key K) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is done.
func (krl *KeyedRateLimiter[K]) Wait(ctx context.Context, key K) error {
	return krl.getLimiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter[K]) getLimiter(key K) *rate.Limiter {
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		return limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = limiter
	return limiter
}
