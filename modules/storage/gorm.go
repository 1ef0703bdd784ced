package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/product-catalog/domain/product"
	"gorm.io/gorm"
)

// GormRepository stores products through GORM. Deletes are soft; soft-deleted
// rows are invisible to every query.
type GormRepository struct {
	db *gorm.DB
}

var _ product.Repository = (*GormRepository)(nil)

// NewGormRepository creates a new GORM-backed product repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the products table.
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&productRecord{})
}

// Save inserts or overwrites a product.
func (r *GormRepository) Save(ctx context.Context, p *product.Product) (*product.Product, error) {
	rec := newRecord(p)
	db := r.db.WithContext(ctx)

	if !p.HasID() {
		if err := db.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return rec.toDomain(), nil
	}

	rec.UpdatedAt = time.Now()
	result := db.Model(&productRecord{}).
		Where("id = ?", rec.ID).
		Select("name", "description", "price", "stock", "category", "status", "updated_at").
		Updates(&rec)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, product.ErrNotFound
	}
	return rec.toDomain(), nil
}

// FindByID retrieves a product by its ID.
func (r *GormRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return rec.toDomain(), nil
}

// FindAll retrieves all products ordered by ID.
func (r *GormRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	var recs []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	products := make([]*product.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, rec.toDomain())
	}
	return products, nil
}

// DeleteByID soft-deletes a product.
func (r *GormRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return result.RowsAffected > 0, nil
}
