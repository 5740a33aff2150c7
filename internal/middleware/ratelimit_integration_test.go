//go:build integration

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethiogpt/toolsgate/internal/cache"
)

func redisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

// TestRateLimitRedisConcurrency verifies the shared Redis store under concurrent load.
func TestRateLimitRedisConcurrency(t *testing.T) {
	ctx := context.Background()

	cacheClient, err := cache.New(ctx, redisURL())
	if err != nil {
		t.Skipf("Skipping integration test: Redis not available: %v", err)
	}
	defer cacheClient.Close()

	store, err := cache.RateLimitStore(cacheClient)
	if err != nil {
		t.Fatalf("RateLimitStore: %v", err)
	}

	rl := NewRateLimiter(RateLimitConfig{Logger: discardLogger(), Store: store, Enabled: true})
	// A fresh scope per run keeps counters from earlier runs out of the way.
	scope := fmt.Sprintf("image-%d", time.Now().UnixNano())
	handler := mustLimit(t, rl, scope, "10-H")

	var allowed, rejected int64
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := doRequest(handler, "192.168.1.100:4000")
			switch w.Code {
			case http.StatusOK:
				atomic.AddInt64(&allowed, 1)
			case http.StatusTooManyRequests:
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	t.Logf("redis rate limit: %d allowed, %d rejected", allowed, rejected)

	if allowed != 10 {
		t.Errorf("allowed = %d, want exactly 10", allowed)
	}
	if rejected != 20 {
		t.Errorf("rejected = %d, want 20", rejected)
	}
}
