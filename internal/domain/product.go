package domain

import (
	"errors"
)

var (
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrDuplicateProductID  = errors.New("duplicate product id in catalog")
)

// Product represents a catalog entry. Products are created once by the
// catalog source and never mutated afterwards.
type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Price < 0 {
		return ErrInvalidProductPrice
	}
	return nil
}

// ValidateCatalog checks every product and the uniqueness of ids.
func ValidateCatalog(catalog []*Product) error {
	seen := make(map[int]struct{}, len(catalog))
	for _, p := range catalog {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return ErrDuplicateProductID
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// FindProduct returns the catalog entry with the given id.
func FindProduct(catalog []*Product, id int) (*Product, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProductNotFound
}
