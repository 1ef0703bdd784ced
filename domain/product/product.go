// Package product contains the catalog's domain entity and the rules it enforces on
// itself. Fields are unexported; every value goes through a setter that coerces it
// into range, so a *Product can never hold an invalid combination.
package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DescriptionPlaceholder replaces a missing or blank description.
const DescriptionPlaceholder = "No disponible"

// Product is a catalog item.
type Product struct {
	id          int64
	name        string
	description string
	price       decimal.Decimal
	stock       int
	category    Category
	status      Status
}

// Draft carries the raw, possibly out-of-range inputs for a new product.
// Zero values mean "absent" and are normalized like any other invalid input.
type Draft struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    Category
	Status      Status
}

// Snapshot is the plain representation of a product as stored or cached.
type Snapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    Category        `json:"category"`
	Status      Status          `json:"status"`
}

// New builds an unsaved product. Fields are normalized in a fixed order:
// description, price, stock, category, then status, so the stock used for
// status derivation is already final.
func New(d Draft) *Product {
	p := &Product{name: d.Name}
	p.SetDescription(d.Description)
	p.SetPrice(d.Price)
	p.SetStock(d.Stock)
	p.SetCategory(d.Category)
	p.SetStatus(d.Status)
	return p
}

// Restore rebuilds a product loaded from storage. It runs the same setters as New,
// so a stored row with zero stock and a non-discontinued status comes back
// OUT_OF_STOCK.
func Restore(s Snapshot) *Product {
	p := New(Draft{
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Stock:       s.Stock,
		Category:    s.Category,
		Status:      s.Status,
	})
	p.id = s.ID
	return p
}

// ID returns the storage identifier, or 0 if the product was never saved.
func (p *Product) ID() int64 { return p.id }

// HasID reports whether storage has assigned an identifier.
func (p *Product) HasID() bool { return p.id != 0 }

func (p *Product) Name() string { return p.name }

func (p *Product) Description() string { return p.description }

func (p *Product) Price() decimal.Decimal { return p.price }

func (p *Product) Stock() int { return p.stock }

func (p *Product) Category() Category { return p.category }

func (p *Product) Status() Status { return p.status }

// Snapshot returns a copy of the product's fields.
func (p *Product) Snapshot() Snapshot {
	return Snapshot{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Stock:       p.stock,
		Category:    p.category,
		Status:      p.status,
	}
}

// SetName assigns the name as given.
func (p *Product) SetName(name string) {
	p.name = name
}

// SetDescription stores desc, or the placeholder when desc is blank.
func (p *Product) SetDescription(desc string) {
	if strings.TrimSpace(desc) == "" {
		p.description = DescriptionPlaceholder
		return
	}
	p.description = desc
}

// SetPrice stores price, clamping negatives to zero.
func (p *Product) SetPrice(price decimal.Decimal) {
	if price.IsNegative() {
		p.price = decimal.Zero
		return
	}
	p.price = price
}

// SetStock stores stock, clamping negatives to zero. It does not touch status:
// the stock/status coupling is only evaluated when a status is assigned.
func (p *Product) SetStock(stock int) {
	if stock < 0 {
		p.stock = 0
		return
	}
	p.stock = stock
}

// SetCategory stores c; undeclared values become CategoryDefault.
func (p *Product) SetCategory(c Category) {
	if !c.Valid() {
		c = CategoryDefault
	}
	p.category = c
}

// SetStatus stores s against the current stock. With no stock, anything other
// than DISCONTINUED becomes OUT_OF_STOCK.
func (p *Product) SetStatus(s Status) {
	if !s.Valid() {
		s = StatusDefault
	}
	if p.stock == 0 && s != StatusDiscontinued {
		s = StatusOutOfStock
	}
	p.status = s
}

func (p *Product) clone() *Product {
	c := *p
	return &c
}
