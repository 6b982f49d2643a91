package domain

import "github.com/anouar36/B2B-TradeHub/pkg/errors"

// Domain-specific errors
var (
	ErrCodeRequired      = errors.NewValidation("code is required", nil)
	ErrInvalidPercentage = errors.NewValidation("discount percentage must be between 0 and 100", nil)
	ErrInvalidWindow     = errors.NewValidation("valid-until date precedes valid-from date", nil)
)

// NewPromoCodeNotFound creates a not found error for a promo code
func NewPromoCodeNotFound(code string) error {
	return errors.NewNotFound("promo code", code)
}
