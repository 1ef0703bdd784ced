package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// catalogAdapter wraps ServiceContainer for type-safe cross-module communication.
// This is the adapter that implements the CatalogPort interface.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services.
// container is the ServiceContainer from the catalog module received via SetDependencyServiceContainer.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// CreateProduct creates a product via the create service.
func (a *catalogAdapter) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	var resp CreateProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreate,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceCreate, err)
	}
	return &resp, nil
}

// GetProduct retrieves a product by ID via the get service.
func (a *catalogAdapter) GetProduct(ctx context.Context, id int64) (*GetProductResponse, error) {
	req := GetProductRequest{ID: id}
	var resp GetProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGet,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceGet, err)
	}
	return &resp, nil
}

// ListProducts lists all products via the list service.
func (a *catalogAdapter) ListProducts(ctx context.Context) (*ListProductsResponse, error) {
	req := ListProductsRequest{}
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceList,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceList, err)
	}
	return &resp, nil
}

// UpdateProduct applies a partial update via the update service.
func (a *catalogAdapter) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	var resp UpdateProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceUpdate,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceUpdate, err)
	}
	return &resp, nil
}

// DeleteProduct deletes a product via the delete service.
func (a *catalogAdapter) DeleteProduct(ctx context.Context, id int64) (*DeleteProductResponse, error) {
	req := DeleteProductRequest{ID: id}
	var resp DeleteProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDelete,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceDelete, err)
	}
	return &resp, nil
}
