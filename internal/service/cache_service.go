package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

const cacheKeyPrefix = "exhibit"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// CacheKey joins parts under the service prefix, e.g. exhibit:feed:1:10:false.
func CacheKey(parts ...interface{}) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, cacheKeyPrefix)
	for _, part := range parts {
		segments = append(segments, fmt.Sprint(part))
	}
	return strings.Join(segments, ":")
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Remember serves dest from cache or fills it with load and stores the result.
// Cache faults never fail the read.
func (s *CacheService) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func(ctx context.Context) error) error {
	if hit, _ := s.Get(ctx, key, dest); hit {
		return nil
	}
	if err := load(ctx); err != nil {
		return err
	}
	_ = s.Set(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
