package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/example/product-catalog/domain/product"
	"github.com/example/product-catalog/modules/cache"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

const cacheKeyList = "products:all"

// cacheKeyByID returns the cache key for a product by ID.
func cacheKeyByID(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// UpdateResult is the outcome of Service.Update: either the persisted product or
// the ID that matched nothing.
type UpdateResult struct {
	Product   *product.Product
	MissingID int64
}

// NotFound reports whether no product had the requested ID.
func (r UpdateResult) NotFound() bool {
	return r.Product == nil
}

// Service orchestrates catalog operations over a product.Repository. When a
// cache is configured, reads go through it (cache-aside) and every write
// invalidates the affected keys.
type Service struct {
	repo    product.Repository
	cache   cache.CacheService
	logger  types.Logger
	sfGroup singleflight.Group // Prevents cache stampede

	// writes is bumped after every successful write. A read only populates the
	// cache if no write completed while it was loading.
	writes atomic.Uint64
}

// NewService creates a catalog service. c may be nil to disable caching.
func NewService(repo product.Repository, c cache.CacheService, logger types.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Create builds a new product from the draft, normalizing every field, and
// persists it.
func (s *Service) Create(ctx context.Context, d product.Draft) (*product.Product, error) {
	saved, err := s.repo.Save(ctx, product.New(d))
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.invalidate(ctx, saved.ID())
	s.logger.Info("Product created",
		"id", saved.ID(),
		"category", saved.Category().Label(),
		"status", saved.Status().Label())
	return saved, nil
}

// Get returns the product with the given ID, or nil if there is none.
func (s *Service) Get(ctx context.Context, id int64) (*product.Product, error) {
	key := cacheKeyByID(id)

	if s.cache != nil {
		var cached product.Snapshot
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			// Continue to storage on cache error
			s.logger.Warn("Cache read failed", "key", key, "error", err)
		}
		if found {
			return product.Restore(cached), nil
		}
	}

	gen := s.writes.Load()
	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}

	p, _ := val.(*product.Product)
	if p == nil {
		return nil, nil
	}

	s.populate(ctx, key, gen, p.Snapshot())
	return p, nil
}

// List returns every product ordered by ID. An empty catalog yields an empty slice.
func (s *Service) List(ctx context.Context) ([]*product.Product, error) {
	if s.cache != nil {
		var cached []product.Snapshot
		found, err := s.cache.Get(ctx, cacheKeyList, &cached)
		if err != nil {
			s.logger.Warn("Cache read failed", "key", cacheKeyList, "error", err)
		}
		if found {
			products := make([]*product.Product, 0, len(cached))
			for _, snap := range cached {
				products = append(products, product.Restore(snap))
			}
			return products, nil
		}
	}

	gen := s.writes.Load()
	val, err, _ := s.sfGroup.Do(cacheKeyList, func() (any, error) {
		return s.repo.FindAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products, _ := val.([]*product.Product)
	if products == nil {
		products = []*product.Product{}
	}

	snaps := make([]product.Snapshot, 0, len(products))
	for _, p := range products {
		snaps = append(snaps, p.Snapshot())
	}
	s.populate(ctx, cacheKeyList, gen, snaps)
	return products, nil
}

// Update merges u into the stored product and persists the result. A missing
// product, including one deleted between lookup and save, yields a NotFound
// result rather than an error.
func (s *Service) Update(ctx context.Context, id int64, u *product.Update) (UpdateResult, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	if current == nil {
		return UpdateResult{MissingID: id}, nil
	}

	saved, err := s.repo.Save(ctx, product.Merge(current, u))
	if errors.Is(err, product.ErrNotFound) {
		return UpdateResult{MissingID: id}, nil
	}
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to save product %d: %w", id, err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("Product updated", "id", id, "status", saved.Status().Label())
	return UpdateResult{Product: saved}, nil
}

// Delete removes the product and reports whether anything was deleted.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if deleted {
		s.invalidate(ctx, id)
		s.logger.Info("Product deleted", "id", id)
	}
	return deleted, nil
}

// CacheEnabled reports whether reads go through a cache.
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// populate caches value unless a write has completed since gen was read.
func (s *Service) populate(ctx context.Context, key string, gen uint64, value any) {
	if s.cache == nil || s.writes.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("Failed to populate cache", "key", key, "error", err)
	}
}

// invalidate runs after a successful write. In-flight loads are detached from
// singleflight so later readers start fresh ones, and loads that began before
// the write are kept out of the cache.
func (s *Service) invalidate(ctx context.Context, id int64) {
	key := cacheKeyByID(id)
	s.sfGroup.Forget(key)
	s.sfGroup.Forget(cacheKeyList)
	s.writes.Add(1)

	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key, cacheKeyList); err != nil {
		s.logger.Warn("Failed to invalidate cache", "id", id, "error", err)
	}
}
