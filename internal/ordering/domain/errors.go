package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// Domain-specific errors
var (
	ErrNoItems           = errors.NewValidation("order must contain at least one item", nil)
	ErrInvalidQuantity   = errors.NewValidation("quantity must be greater than 0", nil)
	ErrNegativeUnitPrice = errors.NewValidation("unit price cannot be negative", nil)
	ErrRepriceNonPending = errors.NewValidation("promo codes can only be applied to PENDING orders", nil)
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id uint) error {
	return errors.NewNotFound("order", id)
}

// NewInvalidTransition creates a validation error for a forbidden status change
func NewInvalidTransition(from, to OrderStatus) error {
	return errors.NewValidation(
		fmt.Sprintf("cannot transition order from %s to %s", from, to),
		map[string]interface{}{"from": string(from), "to": string(to)},
	)
}

// NewPaymentIncomplete creates a validation error for confirming an unpaid order
func NewPaymentIncomplete(remaining decimal.Decimal) error {
	return errors.NewValidation(
		fmt.Sprintf("payment incomplete: %s remaining", remaining.StringFixed(2)),
		map[string]interface{}{"remaining_balance": remaining.StringFixed(2)},
	)
}
