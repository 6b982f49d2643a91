package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
	"github.com/anouar36/B2B-TradeHub/internal/payments/ports"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// PaymentUseCase is the reconciliation ledger: it records payments against
// orders and keeps the order's remaining balance in step with settlements.
type PaymentUseCase struct {
	repo   ports.PaymentRepository
	orders ports.OrderLedger
	events ports.EventPublisher
	tx     ports.TxRunner
	log    *logger.Logger
}

// NewPaymentUseCase creates a new payment use case
func NewPaymentUseCase(
	repo ports.PaymentRepository,
	orders ports.OrderLedger,
	events ports.EventPublisher,
	tx ports.TxRunner,
	log *logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, orders: orders, events: events, tx: tx, log: log}
}

// RecordPaymentInput represents the input for recording a payment
type RecordPaymentInput struct {
	OrderID uint
	Method  domain.PaymentMethod
	Amount  decimal.Decimal
	PaidAt  time.Time
	DueDate *time.Time
}

// RecordPayment records a payment against an order. Cash settles
// immediately and decrements the order's remaining balance in the same
// transaction; checks and transfers stay PENDING and leave the balance
// untouched until processed.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment, err := domain.NewPayment(input.OrderID, input.Method, input.Amount, paidAt, input.DueDate)
	if err != nil {
		return nil, err
	}

	err = uc.tx.InTx(ctx, func(ctx context.Context) error {
		if err := uc.orders.EnsureAcceptsPayments(ctx, input.OrderID); err != nil {
			return err
		}

		if payment.Method == domain.MethodCash {
			if err := payment.Settle(time.Now()); err != nil {
				return err
			}
		}

		if err := uc.repo.Create(ctx, payment); err != nil {
			return errors.NewInternal("failed to record payment", err)
		}

		if payment.Status == domain.PaymentStatusSettled {
			return uc.orders.ApplySettledPayment(ctx, payment.OrderID, payment.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("payment recorded",
		zap.String("payment_number", payment.Number),
		zap.Uint("order_id", payment.OrderID),
		zap.String("method", string(payment.Method)),
		zap.String("status", string(payment.Status)),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)

	if err := uc.events.PublishPaymentRecorded(ctx, payment); err != nil {
		uc.log.WithContext(ctx).Error("failed to publish payment recorded event", zap.Error(err))
	}

	return payment, nil
}

// ProcessPayment settles a PENDING payment and decrements the order's
// remaining balance in the same transaction
func (uc *PaymentUseCase) ProcessPayment(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment *domain.Payment

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = uc.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := payment.Settle(time.Now()); err != nil {
			return err
		}

		if err := uc.repo.Update(ctx, payment); err != nil {
			return errors.NewInternal("failed to update payment", err)
		}

		return uc.orders.ApplySettledPayment(ctx, payment.OrderID, payment.Amount)
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("payment settled",
		zap.String("payment_number", payment.Number),
		zap.Uint("order_id", payment.OrderID),
	)

	if err := uc.events.PublishPaymentSettled(ctx, payment); err != nil {
		uc.log.WithContext(ctx).Error("failed to publish payment settled event", zap.Error(err))
	}

	return payment, nil
}

// RejectPayment marks a non-terminal payment REJECTED. The order's balance
// is untouched: rejected money was never counted.
func (uc *PaymentUseCase) RejectPayment(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment *domain.Payment

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = uc.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := payment.Reject(); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, payment); err != nil {
			return errors.NewInternal("failed to update payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("payment rejected",
		zap.String("payment_number", payment.Number),
		zap.Uint("order_id", payment.OrderID),
	)

	return payment, nil
}

// UpdateDueDate moves the due date of a PENDING payment
func (uc *PaymentUseCase) UpdateDueDate(ctx context.Context, id uint, dueDate time.Time) (*domain.Payment, error) {
	var payment *domain.Payment

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = uc.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := payment.Reschedule(dueDate); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, payment); err != nil {
			return errors.NewInternal("failed to update payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id uint) (*domain.Payment, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetPaymentByNumber retrieves a payment by its payment number
func (uc *PaymentUseCase) GetPaymentByNumber(ctx context.Context, number string) (*domain.Payment, error) {
	return uc.repo.GetByNumber(ctx, number)
}

// ListPaymentsByOrder retrieves all payments recorded against an order
func (uc *PaymentUseCase) ListPaymentsByOrder(ctx context.Context, orderID uint) ([]*domain.Payment, error) {
	return uc.repo.ListByOrder(ctx, orderID)
}

// ListPaymentsByStatus retrieves all payments in the given status
func (uc *PaymentUseCase) ListPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusSettled, domain.PaymentStatusRejected:
	default:
		return nil, errors.NewValidation("unknown payment status",
			map[string]interface{}{"status": string(status)})
	}
	return uc.repo.ListByStatus(ctx, status)
}

// ListPaymentsByDateRange retrieves payments dated within [from, to]
func (uc *PaymentUseCase) ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	if to.Before(from) {
		return nil, errors.NewValidation("date range end precedes start", nil)
	}
	return uc.repo.ListByDateRange(ctx, from, to)
}

// ListOverduePayments retrieves pending payments past their due date
func (uc *PaymentUseCase) ListOverduePayments(ctx context.Context) ([]*domain.Payment, error) {
	return uc.repo.ListOverdue(ctx, time.Now())
}
