package domain

import "github.com/anouar36/B2B-TradeHub/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired  = errors.NewValidation("name is required", nil)
	ErrNegativePrice = errors.NewValidation("unit price cannot be negative", nil)
	ErrNegativeStock = errors.NewValidation("stock cannot be negative", nil)
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uint) error {
	return errors.NewNotFound("product", id)
}

// NewInsufficientStock creates an insufficient stock error
func NewInsufficientStock(productID uint, requested, available int) error {
	return errors.NewInsufficientStock(productID, requested, available)
}
