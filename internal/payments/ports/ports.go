package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create creates a new payment
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id uint) (*domain.Payment, error)

	// GetByIDForUpdate retrieves a payment by ID holding a row lock for
	// the rest of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uint) (*domain.Payment, error)

	// GetByNumber retrieves a payment by its payment number
	GetByNumber(ctx context.Context, number string) (*domain.Payment, error)

	// Update updates an existing payment
	Update(ctx context.Context, payment *domain.Payment) error

	// ListByOrder retrieves all payments recorded against an order
	ListByOrder(ctx context.Context, orderID uint) ([]*domain.Payment, error)

	// ListByStatus retrieves all payments in the given status
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error)

	// ListByDateRange retrieves payments dated within [from, to]
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Payment, error)

	// ListOverdue retrieves pending payments whose due date is before asOf
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error)

	// SettledTotalByOrder sums the settled payments against an order
	SettledTotalByOrder(ctx context.Context, orderID uint) (decimal.Decimal, error)
}

// OrderLedger exposes the ordering context to payment workflows
type OrderLedger interface {
	// EnsureAcceptsPayments verifies the order exists and is still open
	EnsureAcceptsPayments(ctx context.Context, orderID uint) error

	// ApplySettledPayment decrements the order's remaining balance by a
	// settled amount; must run inside the settling transaction
	ApplySettledPayment(ctx context.Context, orderID uint, amount decimal.Decimal) error
}

// EventPublisher defines the interface for publishing payment events
type EventPublisher interface {
	// PublishPaymentRecorded publishes a payment recorded event
	PublishPaymentRecorded(ctx context.Context, payment *domain.Payment) error

	// PublishPaymentSettled publishes a payment settled event
	PublishPaymentSettled(ctx context.Context, payment *domain.Payment) error
}

// TxRunner runs a function inside a database transaction whose handle
// travels in the context
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
