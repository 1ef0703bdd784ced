package api

import (
	"github.com/example/product-catalog/domain/product"
	"github.com/example/product-catalog/modules/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the HTTP request body for creating a product.
// Every field is optional; missing or out-of-range values are normalized.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	Category    product.Category `json:"category"`
	Status      product.Status   `json:"status"`
}

// UpdateProductRequest is the HTTP request body for a partial update.
type UpdateProductRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Price       *decimal.Decimal  `json:"price"`
	Stock       *int              `json:"stock"`
	Category    *product.Category `json:"category"`
	Status      *product.Status   `json:"status"`
}

// ProductResponse is the HTTP representation of a product.
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	Category    product.Category `json:"category"`
	Status      product.Status   `json:"status"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

func toProductResponse(p *catalog.ProductResponse) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Status:      p.Status,
	}
}

func (r UpdateProductRequest) changes() product.Update {
	return product.Update{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Status:      r.Status,
	}
}
