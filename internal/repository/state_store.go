package repository

import (
	"context"
	"errors"
	"time"

	"FusionGate/internal/domain/models"
	"FusionGate/internal/domain/repository"
	"FusionGate/pkg/cache"
)

const lastResultKey = "fusiongate:cycle:last"

// CacheStateStore persists the latest cycle result in a cache backend so a
// restarted instance can serve its read surface before the first tick.
type CacheStateStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewCacheStateStore creates a cache-backed state store.
func NewCacheStateStore(c cache.Service, ttl time.Duration) repository.StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CacheStateStore{cache: c, ttl: ttl}
}

func (s *CacheStateStore) SaveResult(ctx context.Context, res *models.CycleResult) error {
	return s.cache.Set(ctx, lastResultKey, res, s.ttl)
}

// LoadResult returns the stored cycle result, or nil when none exists.
func (s *CacheStateStore) LoadResult(ctx context.Context) (*models.CycleResult, error) {
	var res models.CycleResult
	if err := s.cache.Get(ctx, lastResultKey, &res); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *CacheStateStore) Health(ctx context.Context) error {
	_, err := s.cache.Exists(ctx, lastResultKey)
	return err
}

func (s *CacheStateStore) Close() error { return nil }
