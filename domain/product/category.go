package product

import (
	"fmt"
	"strings"
)

// Category classifies a product. The zero value is CategoryDefault.
type Category int

const (
	CategoryDefault Category = iota
	CategoryElectronics
	CategoryFashion
	CategoryHome
	CategoryBooks
	CategorySports
	CategoryToys
	CategoryGroceries
	CategoryBeauty
	CategoryAutomotive
	CategoryHealth
)

type categoryInfo struct {
	name  string
	label string
}

var categories = [...]categoryInfo{
	CategoryDefault:     {"DEFAULT", "General"},
	CategoryElectronics: {"ELECTRONICS", "Electrónica"},
	CategoryFashion:     {"FASHION", "Moda"},
	CategoryHome:        {"HOME", "Hogar"},
	CategoryBooks:       {"BOOKS", "Libros"},
	CategorySports:      {"SPORTS", "Deportes"},
	CategoryToys:        {"TOYS", "Juguetes"},
	CategoryGroceries:   {"GROCERIES", "Comestibles"},
	CategoryBeauty:      {"BEAUTY", "Belleza"},
	CategoryAutomotive:  {"AUTOMOTIVE", "Automotriz"},
	CategoryHealth:      {"HEALTH", "Salud"},
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categories)
}

// String returns the enum name, e.g. "ELECTRONICS".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categories[c].name
}

// Label returns the localized display label.
func (c Category) Label() string {
	if !c.Valid() {
		return categories[CategoryDefault].label
	}
	return categories[c].label
}

// ParseCategory resolves an enum name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, info := range categories {
		if info.name == name {
			return Category(i), nil
		}
	}
	return CategoryDefault, fmt.Errorf("unknown category %q", s)
}

// MarshalText encodes the category by name for JSON and storage.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(categories[c].name), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
