package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// ProductCreatedEvent is emitted after a new product has been persisted.
type ProductCreatedEvent struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductCreatedV1 is the typed event definition for product creation.
// Subject: events.catalog.v1.product-created
var ProductCreatedV1 = helper.EventDefinition[ProductCreatedEvent](
	"catalog", "ProductCreated", "v1",
)

// ProductUpdatedEvent is emitted after a partial update has been persisted.
// Fields lists the overrides that were present in the request.
type ProductUpdatedEvent struct {
	ProductID int64     `json:"product_id"`
	Fields    []string  `json:"fields"`
	Status    string    `json:"status"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductUpdatedV1 is the typed event definition for product updates.
// Subject: events.catalog.v1.product-updated
var ProductUpdatedV1 = helper.EventDefinition[ProductUpdatedEvent](
	"catalog", "ProductUpdated", "v1",
)

// ProductDeletedEvent is emitted when a delete actually removed a product.
type ProductDeletedEvent struct {
	ProductID int64     `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ProductDeletedV1 is the typed event definition for product deletion.
// Subject: events.catalog.v1.product-deleted
var ProductDeletedV1 = helper.EventDefinition[ProductDeletedEvent](
	"catalog", "ProductDeleted", "v1",
)
