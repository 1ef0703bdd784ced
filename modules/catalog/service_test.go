package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/example/product-catalog/domain/product"
	"github.com/example/product-catalog/modules/cache"
	"github.com/example/product-catalog/modules/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// mockRepository wraps a memory repository with call counters and injectable errors.
type mockRepository struct {
	inner *storage.MemoryRepository

	findCalls    int
	findAllCalls int

	// afterFind, if set, runs after FindByID has read from the inner repository.
	afterFind func()

	saveErr    error
	findErr    error
	findAllErr error
	deleteErr  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{inner: storage.NewMemoryRepository()}
}

func (m *mockRepository) Save(ctx context.Context, p *product.Product) (*product.Product, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.inner.Save(ctx, p)
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, err := m.inner.FindByID(ctx, id)
	if m.afterFind != nil {
		m.afterFind()
	}
	return p, err
}

func (m *mockRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	m.findAllCalls++
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	return m.inner.FindAll(ctx)
}

func (m *mockRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	return m.inner.DeleteByID(ctx, id)
}

// fakeCache is an in-process cache.CacheService.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	stats  cache.Stats
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	data, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return false, nil
	}
	c.stats.Hits++
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *fakeCache) Stats() cache.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func newTestService(repo product.Repository, c cache.CacheService) *Service {
	return NewService(repo, c, &mockLogger{})
}

// sameProduct compares snapshots, treating prices as numbers.
func sameProduct(a, b *product.Product) bool {
	sa, sb := a.Snapshot(), b.Snapshot()
	if !sa.Price.Equal(sb.Price) {
		return false
	}
	sa.Price, sb.Price = decimal.Zero, decimal.Zero
	return sa == sb
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	p, err := svc.Create(context.Background(), product.Draft{
		Name:        "Laptop",
		Description: "",
		Price:       decimal.NewFromInt(-5),
		Stock:       -1,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !p.HasID() {
		t.Error("expected ID to be assigned")
	}
	if p.Description() != product.DescriptionPlaceholder {
		t.Errorf("expected placeholder description, got %q", p.Description())
	}
	if !p.Price().IsZero() {
		t.Errorf("expected zero price, got %s", p.Price())
	}
	if p.Stock() != 0 {
		t.Errorf("expected zero stock, got %d", p.Stock())
	}
	if p.Category() != product.CategoryDefault {
		t.Errorf("expected DEFAULT category, got %s", p.Category())
	}
	if p.Status() != product.StatusOutOfStock {
		t.Errorf("expected OUT_OF_STOCK, got %s", p.Status())
	}
	if repo.inner.Len() != 1 {
		t.Errorf("expected 1 stored product, got %d", repo.inner.Len())
	}
}

func TestService_Create_SaveError(t *testing.T) {
	repo := newMockRepository()
	repo.saveErr = errors.New("disk full")
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), product.Draft{Name: "Laptop"})
	if !errors.Is(err, repo.saveErr) {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

func TestService_Get(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{Name: "Desk", Stock: 2, Status: product.StatusAvailable})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Name() != "Desk" {
		t.Fatalf("expected Desk, got %v", got)
	}

	missing, err := svc.Get(ctx, 999)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing product")
	}
}

func TestService_Get_RepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.findErr = errors.New("connection reset")
	svc := newTestService(repo, nil)

	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, repo.findErr) {
		t.Errorf("expected wrapped find error, got %v", err)
	}
}

func TestService_List_Empty(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	products, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if products == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %d", len(products))
	}
}

func TestService_Update(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{
		Name:        "Bike",
		Description: "Road bike",
		Price:       decimal.NewFromInt(900),
		Stock:       3,
		Category:    product.CategorySports,
		Status:      product.StatusAvailable,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	result, err := svc.Update(ctx, created.ID(), &product.Update{
		Stock:  ptr(0),
		Status: ptr(product.StatusAvailable),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.NotFound() {
		t.Fatal("expected product to be found")
	}

	p := result.Product
	if p.Stock() != 0 || p.Status() != product.StatusOutOfStock {
		t.Errorf("expected stock 0 and OUT_OF_STOCK, got %d %s", p.Stock(), p.Status())
	}
	if p.Name() != "Bike" || p.Description() != "Road bike" || p.Category() != product.CategorySports {
		t.Errorf("expected untouched fields to be preserved, got %+v", p.Snapshot())
	}

	stored, _ := repo.inner.FindByID(ctx, created.ID())
	if stored.Status() != product.StatusOutOfStock {
		t.Errorf("expected update to be persisted, got %s", stored.Status())
	}
}

func TestService_Update_NotFound(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	result, err := svc.Update(context.Background(), 999, &product.Update{Name: ptr("x")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !result.NotFound() {
		t.Fatal("expected NotFound result")
	}
	if result.MissingID != 999 {
		t.Errorf("expected missing ID 999, got %d", result.MissingID)
	}
	if repo.inner.Len() != 0 {
		t.Errorf("expected catalog unchanged, got %d products", repo.inner.Len())
	}
}

func TestService_Update_DeletedBeforeSave(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{Name: "Kettle", Stock: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	repo.saveErr = product.ErrNotFound
	result, err := svc.Update(ctx, created.ID(), &product.Update{Stock: ptr(4)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !result.NotFound() {
		t.Error("expected NotFound when the row vanished before save")
	}
}

func TestService_Update_NilChanges(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, product.Draft{Name: "Kettle", Stock: 1, Status: product.StatusComingSoon})

	result, err := svc.Update(ctx, created.ID(), nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.NotFound() {
		t.Fatal("expected product to be found")
	}
	if !sameProduct(result.Product, created) {
		t.Errorf("expected no changes, got %+v", result.Product.Snapshot())
	}
}

func TestService_Delete(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{Name: "Lamp"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i, want := range []bool{true, false, false} {
		deleted, err := svc.Delete(ctx, created.ID())
		if err != nil {
			t.Fatalf("Delete() #%d error = %v", i+1, err)
		}
		if deleted != want {
			t.Errorf("Delete() #%d = %v, want %v", i+1, deleted, want)
		}
	}

	deleted, err := svc.Delete(ctx, 12345)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Error("expected false for a product that never existed")
	}
}

func TestService_Delete_RepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.deleteErr = errors.New("locked")
	svc := newTestService(repo, nil)

	if _, err := svc.Delete(context.Background(), 1); !errors.Is(err, repo.deleteErr) {
		t.Errorf("expected wrapped delete error, got %v", err)
	}
}

func TestService_CacheAside(t *testing.T) {
	repo := newMockRepository()
	c := newFakeCache()
	svc := newTestService(repo, c)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{Name: "Camera", Stock: 5, Status: product.StatusAvailable})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	key := cacheKeyByID(created.ID())

	if _, err := svc.Get(ctx, created.ID()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !c.has(key) {
		t.Fatal("expected product to be cached after miss")
	}

	got, err := svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if repo.findCalls != 1 {
		t.Errorf("expected second Get to be served from cache, repository called %d times", repo.findCalls)
	}
	if !sameProduct(got, created) {
		t.Errorf("cached product differs: %+v vs %+v", got.Snapshot(), created.Snapshot())
	}

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.findAllCalls != 1 {
		t.Errorf("expected list to be cached, repository called %d times", repo.findAllCalls)
	}

	if _, err := svc.Update(ctx, created.ID(), &product.Update{Name: ptr("Camera II")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if c.has(key) || c.has(cacheKeyList) {
		t.Error("expected update to invalidate cached entries")
	}

	got, err = svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name() != "Camera II" {
		t.Errorf("expected fresh name after invalidation, got %q", got.Name())
	}

	if _, err := svc.Delete(ctx, created.ID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if c.has(key) {
		t.Error("expected delete to invalidate cached product")
	}
	if got, _ := svc.Get(ctx, created.ID()); got != nil {
		t.Error("expected deleted product to be gone")
	}
}

func TestService_ConcurrentLoadDoesNotCacheStaleProduct(t *testing.T) {
	repo := newMockRepository()
	c := newFakeCache()
	svc := newTestService(repo, c)
	ctx := context.Background()

	created, err := svc.Create(ctx, product.Draft{Name: "Old", Stock: 5, Status: product.StatusAvailable})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	key := cacheKeyByID(created.ID())

	// The first load reads the row, then stalls until the update has finished.
	loaded := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	repo.afterFind = func() {
		once.Do(func() {
			close(loaded)
			<-release
		})
	}

	done := make(chan *product.Product)
	go func() {
		p, err := svc.Get(ctx, created.ID())
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		done <- p
	}()

	<-loaded
	if _, err := svc.Update(ctx, created.ID(), &product.Update{Name: ptr("New")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	close(release)

	if stale := <-done; stale == nil || stale.Name() != "Old" {
		t.Fatalf("expected the stalled load to return the pre-update product, got %+v", stale)
	}
	if c.has(key) {
		t.Error("expected the stalled load not to populate the cache")
	}

	got, err := svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name() != "New" {
		t.Errorf("expected updated name, got %q", got.Name())
	}
	if !c.has(key) {
		t.Error("expected a fresh load to populate the cache")
	}
}

func TestService_CacheErrorFallsThrough(t *testing.T) {
	repo := newMockRepository()
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	svc := newTestService(repo, c)
	ctx := context.Background()

	created, _ := svc.Create(ctx, product.Draft{Name: "Tent", Stock: 1})

	got, err := svc.Get(ctx, created.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected product from repository when cache fails")
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
}

func TestUpdateResult(t *testing.T) {
	if !(UpdateResult{MissingID: 4}).NotFound() {
		t.Error("expected empty result to be NotFound")
	}
	p := product.New(product.Draft{Name: "x"})
	if (UpdateResult{Product: p}).NotFound() {
		t.Error("expected result with product to be found")
	}
}
