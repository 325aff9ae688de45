package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

// CacheRepository wraps Redis for feed caching and visitor de-duplication.
// A nil client turns every call into a miss or no-op.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (r *CacheRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if !r.Enabled() {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// AddVisitor records member in the HyperLogLog at key and reports whether it was new.
// Without Redis no visitor is reported as new.
func (r *CacheRepository) AddVisitor(ctx context.Context, key, member string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	changed, err := r.client.PFAdd(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("redis pfadd %s: %w", key, err)
	}
	return changed == 1, nil
}

// DeleteByPattern removes cached entries matching the provided pattern.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if !r.Enabled() {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}

	r.logger.Debug("cache invalidated", zap.String("pattern", pattern))
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *CacheRepository) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
