package product

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Save when asked to overwrite a product that no
// longer exists.
var ErrNotFound = errors.New("product not found")

// Repository is the storage port for products. Implementations must be safe for
// concurrent use.
type Repository interface {
	// Save inserts p when it has no ID and overwrites the stored row otherwise.
	// It returns the product as persisted, with its ID assigned.
	Save(ctx context.Context, p *Product) (*Product, error)

	// FindByID returns nil and no error when no product has the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	FindAll(ctx context.Context) ([]*Product, error)

	// DeleteByID reports whether a product was removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
