package catalog

import (
	"errors"

	"github.com/fjod/storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidSize     = errors.New("size not offered for product")
	ErrInvalidColor    = errors.New("color not offered for product")
)

// Criteria narrows a product list. An empty Category matches every category
// and a MaxPrice of zero or less means no price ceiling.
type Criteria struct {
	Category string
	MaxPrice float64
}

// Filter returns the products matching c in source order. The result is
// never nil so callers can render an empty listing directly.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.MaxPrice > 0 && p.Price > c.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

func Find(products []domain.Product, id string) (domain.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// Related lists the other products of p's category.
func Related(products []domain.Product, p domain.Product) []domain.Product {
	out := make([]domain.Product, 0)
	for _, other := range products {
		if other.Category == p.Category && other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out
}

func Featured(products []domain.Product, n int) []domain.Product {
	if n < 0 {
		n = 0
	}
	if n > len(products) {
		n = len(products)
	}
	out := make([]domain.Product, n)
	copy(out, products[:n])
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Selection is the size and color a shopper picked for a product.
type Selection struct {
	Size  string
	Color string
}

// DefaultSelection picks the first size and first color, leaving a dimension
// empty when the product has no options for it.
func DefaultSelection(p domain.Product) Selection {
	var s Selection
	if len(p.Sizes) > 0 {
		s.Size = p.Sizes[0]
	}
	if len(p.Colors) > 0 {
		s.Color = p.Colors[0]
	}
	return s
}

// ResolveSelection applies explicit choices over DefaultSelection. A nil
// pointer keeps the default and an empty string clears the dimension. Any
// other value must be one the product offers.
func ResolveSelection(p domain.Product, size, color *string) (Selection, error) {
	s := DefaultSelection(p)
	if size != nil {
		s.Size = *size
	}
	if color != nil {
		s.Color = *color
	}
	if s.Size != "" && !p.HasSize(s.Size) {
		return Selection{}, ErrInvalidSize
	}
	if s.Color != "" && !p.HasColor(s.Color) {
		return Selection{}, ErrInvalidColor
	}
	return s, nil
}
