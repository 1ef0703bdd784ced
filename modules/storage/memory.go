package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/example/product-catalog/domain/product"
)

// MemoryRepository keeps products in a map. IDs are assigned sequentially from 1.
type MemoryRepository struct {
	products map[int64]product.Snapshot
	nextID   int64
	mu       sync.RWMutex
}

var _ product.Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: make(map[int64]product.Snapshot),
		nextID:   1,
	}
}

// Save inserts or overwrites a product.
func (r *MemoryRepository) Save(_ context.Context, p *product.Product) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := p.Snapshot()
	if !p.HasID() {
		snap.ID = r.nextID
		r.nextID++
	} else if _, ok := r.products[snap.ID]; !ok {
		return nil, product.ErrNotFound
	}

	r.products[snap.ID] = snap
	return product.Restore(snap), nil
}

// FindByID retrieves a product by its ID.
func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return product.Restore(snap), nil
}

// FindAll retrieves all products ordered by ID.
func (r *MemoryRepository) FindAll(_ context.Context) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*product.Product, 0, len(r.products))
	for _, snap := range r.products {
		products = append(products, product.Restore(snap))
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID() < products[j].ID()
	})
	return products, nil
}

// DeleteByID removes a product.
func (r *MemoryRepository) DeleteByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// Len returns the number of stored products.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
