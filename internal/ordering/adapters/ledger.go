package adapters

import (
	"context"

	"github.com/shopspring/decimal"

	paymentports "github.com/anouar36/B2B-TradeHub/internal/payments/ports"
)

// PaymentLedgerAdapter exposes settled payment totals through the ordering
// PaymentLedger port. It wraps the payment repository directly rather than
// the payment use case, which itself depends on the ordering context.
type PaymentLedgerAdapter struct {
	repo paymentports.PaymentRepository
}

// NewPaymentLedgerAdapter creates a ledger view backed by the payment
// repository
func NewPaymentLedgerAdapter(repo paymentports.PaymentRepository) *PaymentLedgerAdapter {
	return &PaymentLedgerAdapter{repo: repo}
}

// SettledTotal sums the settled payments recorded against an order
func (a *PaymentLedgerAdapter) SettledTotal(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	return a.repo.SettledTotalByOrder(ctx, orderID)
}
