package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// rateLimitPrefix is the key prefix for rate limit counters.
	rateLimitPrefix = "toolsgate:ratelimit"
	// rateLimitCleanUpInterval is how often the memory store drops expired counters.
	rateLimitCleanUpInterval = time.Minute
	// rateLimitMaxRetry bounds optimistic-lock retries in the Redis store.
	rateLimitMaxRetry = 3
)

// NewMemoryRateLimitStore returns a process-local counter store.
func NewMemoryRateLimitStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: rateLimitCleanUpInterval,
	})
}

// RateLimitStore returns a Redis-backed counter store shared by every instance.
func (c *Cache) RateLimitStore() (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(c.client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: rateLimitMaxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimitStore picks the Redis store when a cache is configured and the
// memory store otherwise.
func RateLimitStore(c *Cache) (limiter.Store, error) {
	if c == nil {
		return NewMemoryRateLimitStore(), nil
	}
	return c.RateLimitStore()
}

// RateLimitKey builds the counter key for a scope, rate and client IP.
// The IP is hashed to avoid storing raw addresses.
func RateLimitKey(scope, rate, ip string) string {
	return scope + ":" + rate + ":" + hashIP(ip)
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
