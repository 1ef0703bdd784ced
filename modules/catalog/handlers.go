package catalog

import (
	"context"
	"time"

	"github.com/example/product-catalog/events"
	"github.com/go-monolith/mono"
)

// Handler methods map wire types to the service and publish events after
// successful writes. Publishing is best-effort.

func (m *Module) handleCreate(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (CreateProductResponse, error) {
	p, err := m.service.Create(ctx, req.draft())
	if err != nil {
		return CreateProductResponse{}, err
	}

	if m.eventBus != nil {
		event := events.ProductCreatedEvent{
			ProductID: p.ID(),
			Name:      p.Name(),
			Category:  p.Category().String(),
			Status:    p.Status().String(),
			Stock:     p.Stock(),
			CreatedAt: time.Now(),
		}
		if err := events.ProductCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish ProductCreated event", "id", p.ID(), "error", err)
		}
	}

	resp := toProductResponse(p)
	return CreateProductResponse{Product: &resp}, nil
}

func (m *Module) handleGet(ctx context.Context, req GetProductRequest, _ *mono.Msg) (GetProductResponse, error) {
	p, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return GetProductResponse{}, err
	}
	if p == nil {
		return GetProductResponse{Found: false}, nil
	}

	resp := toProductResponse(p)
	return GetProductResponse{Product: &resp, Found: true}, nil
}

func (m *Module) handleList(ctx context.Context, _ ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, err := m.service.List(ctx)
	if err != nil {
		return ListProductsResponse{}, err
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return ListProductsResponse{Products: items, Total: len(items)}, nil
}

func (m *Module) handleUpdate(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (UpdateProductResponse, error) {
	result, err := m.service.Update(ctx, req.ID, &req.Changes)
	if err != nil {
		return UpdateProductResponse{}, err
	}
	if result.NotFound() {
		return UpdateProductResponse{NotFound: true, ID: result.MissingID}, nil
	}

	p := result.Product
	if m.eventBus != nil {
		event := events.ProductUpdatedEvent{
			ProductID: p.ID(),
			Fields:    changedFields(req.Changes),
			Status:    p.Status().String(),
			Stock:     p.Stock(),
			UpdatedAt: time.Now(),
		}
		if err := events.ProductUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish ProductUpdated event", "id", p.ID(), "error", err)
		}
	}

	resp := toProductResponse(p)
	return UpdateProductResponse{Product: &resp, ID: p.ID()}, nil
}

func (m *Module) handleDelete(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	deleted, err := m.service.Delete(ctx, req.ID)
	if err != nil {
		return DeleteProductResponse{}, err
	}

	if deleted && m.eventBus != nil {
		event := events.ProductDeletedEvent{
			ProductID: req.ID,
			DeletedAt: time.Now(),
		}
		if err := events.ProductDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish ProductDeleted event", "id", req.ID, "error", err)
		}
	}

	return DeleteProductResponse{ID: req.ID, Deleted: deleted}, nil
}
