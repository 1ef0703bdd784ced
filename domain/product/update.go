package product

import "github.com/shopspring/decimal"

// Update is a sparse set of overrides. A nil field leaves the current value
// alone; an empty Name or Description is treated as absent too.
type Update struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	Status      *Status          `json:"status,omitempty"`
}

// Merge returns a new product built from p with u applied through the regular
// setters, in the order name, description, price, stock, category, status. A new
// stock therefore takes effect before a new status is derived. p is not modified.
// A nil p yields nil; a nil u yields an unchanged copy.
func Merge(p *Product, u *Update) *Product {
	if p == nil {
		return nil
	}
	out := p.clone()
	if u == nil {
		return out
	}

	if u.Name != nil && *u.Name != "" {
		out.SetName(*u.Name)
	}
	if u.Description != nil && *u.Description != "" {
		out.SetDescription(*u.Description)
	}
	if u.Price != nil {
		out.SetPrice(*u.Price)
	}
	if u.Stock != nil {
		out.SetStock(*u.Stock)
	}
	if u.Category != nil {
		out.SetCategory(*u.Category)
	}
	if u.Status != nil {
		out.SetStatus(*u.Status)
	}
	return out
}
