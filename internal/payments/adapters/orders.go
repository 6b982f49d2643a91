package adapters

import (
	"context"

	"github.com/shopspring/decimal"

	orderingapp "github.com/anouar36/B2B-TradeHub/internal/ordering/application"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// OrderLedgerAdapter exposes the ordering context through the payments
// OrderLedger port
type OrderLedgerAdapter struct {
	uc *orderingapp.OrderUseCase
}

// NewOrderLedgerAdapter creates a ledger bridge backed by the order use case
func NewOrderLedgerAdapter(uc *orderingapp.OrderUseCase) *OrderLedgerAdapter {
	return &OrderLedgerAdapter{uc: uc}
}

// EnsureAcceptsPayments verifies the order exists and is still open
func (a *OrderLedgerAdapter) EnsureAcceptsPayments(ctx context.Context, orderID uint) error {
	order, err := a.uc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status.Terminal() {
		return errors.NewValidation("cannot record payment against a closed order",
			map[string]interface{}{"order_id": orderID, "status": string(order.Status)})
	}
	return nil
}

// ApplySettledPayment decrements the order's remaining balance
func (a *OrderLedgerAdapter) ApplySettledPayment(ctx context.Context, orderID uint, amount decimal.Decimal) error {
	_, err := a.uc.ApplyPayment(ctx, orderID, amount)
	return err
}
