package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// Domain-specific errors
var (
	ErrNonPositiveAmount = errors.NewValidation("payment amount must be greater than 0", nil)
	ErrCashDueDate       = errors.NewValidation("cash payments cannot carry a due date", nil)
)

// NewPaymentNotFound creates a not found error with the payment ID
func NewPaymentNotFound(id uint) error {
	return errors.NewNotFound("payment", id)
}

// NewPaymentNotFoundByNumber creates a not found error with the payment number
func NewPaymentNotFoundByNumber(number string) error {
	return errors.NewNotFound("payment", number)
}

// NewUnknownMethod creates a validation error for an unrecognized method
func NewUnknownMethod(method PaymentMethod) error {
	return errors.NewValidation(
		fmt.Sprintf("unknown payment method %q", method),
		map[string]interface{}{"method": string(method)},
	)
}

// NewCashCeilingExceeded creates a validation error for oversized cash payments
func NewCashCeilingExceeded(amount decimal.Decimal) error {
	return errors.NewValidation(
		fmt.Sprintf("cash payments above %s are not accepted", CashCeiling.StringFixed(2)),
		map[string]interface{}{
			"amount":  amount.StringFixed(2),
			"ceiling": CashCeiling.StringFixed(2),
		},
	)
}

// NewInvalidPaymentTransition creates a validation error for a forbidden
// status change
func NewInvalidPaymentTransition(from, to PaymentStatus) error {
	return errors.NewValidation(
		fmt.Sprintf("cannot transition payment from %s to %s", from, to),
		map[string]interface{}{"from": string(from), "to": string(to)},
	)
}

// NewDueDateNotPending creates a validation error for rescheduling a
// non-pending payment
func NewDueDateNotPending(status PaymentStatus) error {
	return errors.NewValidation(
		fmt.Sprintf("due date can only change while PENDING, payment is %s", status),
		map[string]interface{}{"status": string(status)},
	)
}
