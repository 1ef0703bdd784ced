package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/example/product-catalog/domain/product"
	"github.com/example/product-catalog/modules/audit"
	"github.com/example/product-catalog/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientModule depends on the catalog and reaches it only through CatalogPort,
// the way the api module does.
type clientModule struct {
	port CatalogPort
}

func (m *clientModule) Name() string                  { return "catalog-client" }
func (m *clientModule) Dependencies() []string        { return []string{"catalog"} }
func (m *clientModule) Start(_ context.Context) error { return nil }
func (m *clientModule) Stop(_ context.Context) error  { return nil }

func (m *clientModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.port = NewCatalogAdapter(container)
	}
}

// startCatalogApp boots a mono application with the in-memory storage plugin,
// the audit and catalog modules, and a client wired through the adapter.
func startCatalogApp(t *testing.T) (CatalogPort, *audit.Module) {
	t.Helper()

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
	)
	require.NoError(t, err)

	logger := &mockLogger{}
	require.NoError(t, app.RegisterPlugin(
		storage.NewPluginModule(storage.Config{Driver: storage.DriverMemory}, logger), "storage"))

	auditModule := audit.NewModule(logger)
	client := &clientModule{}
	require.NoError(t, app.Register(auditModule))
	require.NoError(t, app.Register(NewModule(logger)))
	require.NoError(t, app.Register(client))

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.port, "catalog container was not injected")
	return client.port, auditModule
}

func TestCatalogAdapter_RoundTrip(t *testing.T) {
	port, auditModule := startCatalogApp(t)
	ctx := context.Background()

	created, err := port.CreateProduct(ctx, &CreateProductRequest{
		Name:  "Laptop",
		Price: decimal.NewFromInt(-5),
		Stock: -1,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Product)
	p := created.Product
	assert.NotZero(t, p.ID)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, product.DescriptionPlaceholder, p.Description)
	assert.Equal(t, product.CategoryDefault, p.Category)
	assert.Equal(t, product.StatusOutOfStock, p.Status)

	// An empty name crosses the wire as present-but-empty and must not clear the stored name.
	updated, err := port.UpdateProduct(ctx, &UpdateProductRequest{
		ID: p.ID,
		Changes: product.Update{
			Name:   ptr(""),
			Price:  ptr(decimal.RequireFromString("19.99")),
			Stock:  ptr(4),
			Status: ptr(product.StatusAvailable),
		},
	})
	require.NoError(t, err)
	require.False(t, updated.NotFound)
	require.NotNil(t, updated.Product)
	assert.Equal(t, "Laptop", updated.Product.Name)
	assert.True(t, updated.Product.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 4, updated.Product.Stock)
	assert.Equal(t, product.StatusAvailable, updated.Product.Status)
	assert.Equal(t, product.CategoryDefault, updated.Product.Category)

	got, err := port.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.Found)
	assert.Equal(t, 4, got.Product.Stock)

	list, err := port.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	missing, err := port.UpdateProduct(ctx, &UpdateProductRequest{ID: 999, Changes: product.Update{Name: ptr("x")}})
	require.NoError(t, err)
	assert.True(t, missing.NotFound)
	assert.Equal(t, int64(999), missing.ID)
	assert.Nil(t, missing.Product)

	first, err := port.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, first.Deleted)

	second, err := port.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, second.Deleted)

	notFound, err := port.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, notFound.Found)

	// Events are delivered asynchronously; only the three successful writes are recorded.
	require.Eventually(t, func() bool {
		return len(auditModule.Entries(p.ID)) >= 3
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	entries := auditModule.Entries(0)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		assert.Equal(t, p.ID, e.ProductID)
		actions = append(actions, e.Action)
		if e.Action == "product_updated" {
			assert.Contains(t, e.Message, "[price stock status]")
		}
	}
	assert.ElementsMatch(t, []string{"product_created", "product_updated", "product_deleted"}, actions)
}
