package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTokenTTL = 10 * time.Minute

// TokenCache caches token key to account id lookups.
// Key format: token:<key>
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenCache creates a TokenCache wrapping the given Redis client. A
// non-positive ttl falls back to defaultTokenTTL.
func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get returns the cached account id for key.
func (c *TokenCache) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("token cache get: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("token cache decode: %w", err)
	}
	return id, true, nil
}

// Set records key → accountID until the ttl expires.
func (c *TokenCache) Set(ctx context.Context, key string, accountID int64) error {
	return c.client.Set(ctx, c.key(key), strconv.FormatInt(accountID, 10), c.ttl).Err()
}

func (c *TokenCache) key(key string) string {
	return "token:" + key
}
