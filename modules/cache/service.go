// Package cache provides a caching layer using the mono.Storage interface.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
)

// CacheService defines the high-level caching operations used by consumers.
type CacheService interface {
	// Get retrieves a value from the cache and unmarshals it into dest.
	// Returns true if the key was found (cache hit), false otherwise.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value in the cache with the configured TTL.
	// The value is JSON-marshaled before storage.
	Set(ctx context.Context, key string, value any) error

	// Delete removes keys from the cache. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Stats returns hit/miss counters since the service was created.
	Stats() Stats

	// Close closes the underlying storage connection.
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// cacheService implements CacheService using the Storage interface.
type cacheService struct {
	storage storage.Storage
	prefix  string
	ttl     time.Duration
	logger  types.Logger
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCacheService creates a new CacheService wrapping the provided storage.
// Keys are namespaced with prefix.
func NewCacheService(s storage.Storage, prefix string, ttl time.Duration, logger types.Logger) CacheService {
	return &cacheService{
		storage: s,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger,
	}
}

func (c *cacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key

	data, err := c.storage.GetWithContext(ctx, fullKey)
	if err != nil {
		return false, fmt.Errorf("cache get error: %w", err)
	}

	// nil or empty means key not found (cache miss)
	if len(data) == 0 {
		c.misses.Add(1)
		c.logger.Debug("Cache miss", "key", fullKey)
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.hits.Add(1)
	c.logger.Debug("Cache hit", "key", fullKey)
	return true, nil
}

func (c *cacheService) Set(ctx context.Context, key string, value any) error {
	fullKey := c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.storage.SetWithContext(ctx, fullKey, data, c.ttl); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

func (c *cacheService) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		fullKey := c.prefix + key
		if err := c.storage.DeleteWithContext(ctx, fullKey); err != nil {
			return fmt.Errorf("cache delete error for %s: %w", fullKey, err)
		}
	}
	return nil
}

func (c *cacheService) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

func (c *cacheService) Close() error {
	return c.storage.Close()
}
