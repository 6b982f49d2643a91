package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a payment was made
type PaymentMethod string

// Payment methods
const (
	MethodCash     PaymentMethod = "CASH"
	MethodCheck    PaymentMethod = "CHECK"
	MethodTransfer PaymentMethod = "TRANSFER"
)

// Valid reports whether the method is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodTransfer:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

// Payment statuses
const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSettled  PaymentStatus = "SETTLED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transitions
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSettled || s == PaymentStatusRejected
}

// CashCeiling is the maximum accepted cash payment. Larger cash amounts
// are rejected as an anti-structuring control.
var CashCeiling = decimal.NewFromInt(20000)

// Payment is one payment recorded against an order. Cash settles on
// creation; checks and transfers stay PENDING until explicitly processed.
type Payment struct {
	ID        uint
	Number    string
	OrderID   uint
	Amount    decimal.Decimal
	Method    PaymentMethod
	Status    PaymentStatus
	PaidAt    time.Time
	DueDate   *time.Time
	SettledAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment validates the amount and method and creates a PENDING payment
// with a generated payment number. Cash above the ceiling is refused here;
// settling cash is the ledger's job, not the entity's.
func NewPayment(orderID uint, method PaymentMethod, amount decimal.Decimal, paidAt time.Time, dueDate *time.Time) (*Payment, error) {
	if !method.Valid() {
		return nil, NewUnknownMethod(method)
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if method == MethodCash && amount.GreaterThan(CashCeiling) {
		return nil, NewCashCeilingExceeded(amount)
	}
	if method == MethodCash && dueDate != nil {
		return nil, ErrCashDueDate
	}

	return &Payment{
		Number:  fmt.Sprintf("PAY-%s", uuid.New().String()),
		OrderID: orderID,
		Amount:  amount,
		Method:  method,
		Status:  PaymentStatusPending,
		PaidAt:  paidAt,
		DueDate: dueDate,
	}, nil
}

// Settle marks the payment SETTLED and records the settlement date. Only a
// PENDING payment can settle.
func (p *Payment) Settle(now time.Time) error {
	if p.Status != PaymentStatusPending {
		return NewInvalidPaymentTransition(p.Status, PaymentStatusSettled)
	}
	p.Status = PaymentStatusSettled
	p.SettledAt = &now
	return nil
}

// Reject marks the payment REJECTED. Settled money cannot be rejected.
func (p *Payment) Reject() error {
	if p.Status.Terminal() {
		return NewInvalidPaymentTransition(p.Status, PaymentStatusRejected)
	}
	p.Status = PaymentStatusRejected
	return nil
}

// Reschedule moves the due date of a PENDING payment
func (p *Payment) Reschedule(dueDate time.Time) error {
	if p.Status != PaymentStatusPending {
		return NewDueDateNotPending(p.Status)
	}
	p.DueDate = &dueDate
	return nil
}

// Overdue reports whether the payment is PENDING past its due date
func (p *Payment) Overdue(now time.Time) bool {
	return p.Status == PaymentStatusPending && p.DueDate != nil && p.DueDate.Before(now)
}
