package catalog

import (
	"context"

	"github.com/example/product-catalog/domain/product"
	"github.com/shopspring/decimal"
)

// Service names, registered as services.catalog.<name>.
const (
	ServiceCreate = "create"
	ServiceGet    = "get"
	ServiceList   = "list"
	ServiceUpdate = "update"
	ServiceDelete = "delete"
)

// CatalogPort is the interface driving adapters use to reach the catalog.
type CatalogPort interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error)
	GetProduct(ctx context.Context, id int64) (*GetProductResponse, error)
	ListProducts(ctx context.Context) (*ListProductsResponse, error)
	UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) (*DeleteProductResponse, error)
}

// ProductResponse is the wire representation of a product.
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	Category    product.Category `json:"category"`
	Status      product.Status   `json:"status"`
}

// CreateProductRequest carries raw create inputs; out-of-range values are normalized.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	Category    product.Category `json:"category"`
	Status      product.Status   `json:"status"`
}

// CreateProductResponse holds the created product. Product is nil when nothing
// was created.
type CreateProductResponse struct {
	Product *ProductResponse `json:"product,omitempty"`
}

// GetProductRequest is the request for getting a product.
type GetProductRequest struct {
	ID int64 `json:"id"`
}

// GetProductResponse is the response for getting a product.
type GetProductResponse struct {
	Product *ProductResponse `json:"product,omitempty"`
	Found   bool             `json:"found"`
}

// ListProductsRequest is the request for listing products.
type ListProductsRequest struct{}

// ListProductsResponse is the response for listing products.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// UpdateProductRequest applies Changes to the product with ID.
type UpdateProductRequest struct {
	ID      int64          `json:"id"`
	Changes product.Update `json:"changes"`
}

// UpdateProductResponse is the response for updating a product.
type UpdateProductResponse struct {
	Product  *ProductResponse `json:"product,omitempty"`
	NotFound bool             `json:"not_found"`
	ID       int64            `json:"id"`
}

// DeleteProductRequest is the request for deleting a product.
type DeleteProductRequest struct {
	ID int64 `json:"id"`
}

// DeleteProductResponse is the response for deleting a product.
type DeleteProductResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func toProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		Stock:       p.Stock(),
		Category:    p.Category(),
		Status:      p.Status(),
	}
}

func (r CreateProductRequest) draft() product.Draft {
	return product.Draft{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Status:      r.Status,
	}
}

// changedFields lists the overrides present in u, in merge order.
func changedFields(u product.Update) []string {
	var fields []string
	if u.Name != nil && *u.Name != "" {
		fields = append(fields, "name")
	}
	if u.Description != nil && *u.Description != "" {
		fields = append(fields, "description")
	}
	if u.Price != nil {
		fields = append(fields, "price")
	}
	if u.Stock != nil {
		fields = append(fields, "stock")
	}
	if u.Category != nil {
		fields = append(fields, "category")
	}
	if u.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}
