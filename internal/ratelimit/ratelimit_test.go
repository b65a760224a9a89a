package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New[string](tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if rl.Allow("anime") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New[string](0.001, 1)

	assert.True(t, rl.Allow("anime"))
	assert.False(t, rl.Allow("anime"))
	assert.True(t, rl.Allow("manga"), "manga has its own bucket")
}

func TestKeyedRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := New[string](0.001, 1)
	require.True(t, rl.Allow("anime"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, rl.Wait(ctx, "anime"))
}

func TestKeyedRateLimiter_WaitWithinBurst(t *testing.T) {
	rl := New[int](1, 2)

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background(), 1))
	require.NoError(t, rl.Wait(context.Background(), 1))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestKeyedRateLimiter_ConcurrentAccess(t *testing.T) {
	rl := New[string](1000, 1000)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "anime"
			if i%2 == 0 {
				key = "manga"
			}
			rl.Allow(key)
		}(i)
	}
	wg.Wait()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Len(t, rl.limiters, 2)
}
