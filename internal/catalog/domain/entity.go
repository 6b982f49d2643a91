package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product with its authoritative unit price
// and available stock
type Product struct {
	ID        uint
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	Retired   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the product entity
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// NewProduct creates a new product with validation
func NewProduct(name string, unitPrice decimal.Decimal, stock int) (*Product, error) {
	product := &Product{
		Name:      name,
		UnitPrice: unitPrice,
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Available reports whether the product can satisfy the requested quantity
func (p *Product) Available(quantity int) bool {
	return !p.Retired && p.Stock >= quantity
}

// Deduct removes quantity units from stock. Stock never goes negative.
func (p *Product) Deduct(quantity int) error {
	if p.Stock < quantity {
		return NewInsufficientStock(p.ID, quantity, p.Stock)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// Retire takes the product off the catalog; retired products fail
// availability checks but stay referenced by historical orders
func (p *Product) Retire() {
	p.Retired = true
	p.UpdatedAt = time.Now()
}
