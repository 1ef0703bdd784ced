package storage

import (
	"time"

	"github.com/example/product-catalog/domain/product"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// priceScale matches the decimal(10,2) price column.
const priceScale = 2

// productRecord is the GORM model for the products table.
type productRecord struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt  `gorm:"index"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"size:1000"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null"`
	Category    string          `gorm:"size:32;not null"`
	Status      string          `gorm:"size:32;not null"`
}

// TableName returns the table name for productRecord.
func (productRecord) TableName() string {
	return "products"
}

func newRecord(p *product.Product) productRecord {
	return productRecord{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().Round(priceScale),
		Stock:       p.Stock(),
		Category:    p.Category().String(),
		Status:      p.Status().String(),
	}
}

func (r productRecord) toDomain() *product.Product {
	return restore(r.ID, r.Name, r.Description, r.Price, r.Stock, r.Category, r.Status)
}

// restore maps stored columns back onto the entity. Unknown enum names fall back
// to DEFAULT, which the entity then normalizes like any other absent value.
func restore(id int64, name, description string, price decimal.Decimal, stock int, category, status string) *product.Product {
	c, _ := product.ParseCategory(category)
	s, _ := product.ParseStatus(status)
	return product.Restore(product.Snapshot{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    c,
		Status:      s,
	})
}
