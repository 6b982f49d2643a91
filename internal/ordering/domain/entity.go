package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	// OrderStatusRejected is reserved for an administrative flow; no code
	// path currently produces it.
	OrderStatusRejected OrderStatus = "REJECTED"
)

// Terminal reports whether no further transition is defined out of the status
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusConfirmed || s == OrderStatusCancelled || s == OrderStatusRejected
}

// OrderItem is a line of an order. Unit price is snapshotted from the
// catalog at creation time and immutable afterwards.
type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// NewOrderItem creates an order line with its total computed
func NewOrderItem(productID uint, quantity int, unitPrice decimal.Decimal) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, ErrNegativeUnitPrice
	}

	return OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Order is the aggregate root of the ordering core. It owns its items;
// client, product and promo code are referenced by identifier only.
type Order struct {
	ID                    uint
	ClientID              uint
	OrderedAt             time.Time
	Subtotal              decimal.Decimal
	TotalDiscount         decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	VATRate               decimal.Decimal
	VATAmount             decimal.Decimal
	TotalWithTax          decimal.Decimal
	RemainingBalance      decimal.Decimal
	PromoCode             string
	Status                OrderStatus
	ConfirmedAt           *time.Time
	Items                 []OrderItem
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewOrder assembles a PENDING order from priced items. The remaining
// balance starts at the tax-inclusive total.
func NewOrder(clientID uint, items []OrderItem, quote Quote, promoCode string, orderedAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return &Order{
		ClientID:              clientID,
		OrderedAt:             orderedAt,
		Subtotal:              quote.Subtotal,
		TotalDiscount:         quote.TotalDiscount,
		SubtotalAfterDiscount: quote.SubtotalAfterDiscount,
		VATRate:               quote.VATRate,
		VATAmount:             quote.VATAmount,
		TotalWithTax:          quote.TotalWithTax,
		RemainingBalance:      quote.TotalWithTax,
		PromoCode:             promoCode,
		Status:                OrderStatusPending,
		Items:                 items,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}, nil
}

// Confirm transitions PENDING → CONFIRMED. The order must be fully paid.
func (o *Order) Confirm(now time.Time) error {
	if o.Status != OrderStatusPending {
		return NewInvalidTransition(o.Status, OrderStatusConfirmed)
	}
	if o.RemainingBalance.IsPositive() {
		return NewPaymentIncomplete(o.RemainingBalance)
	}

	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel transitions PENDING → CANCELLED. Terminal orders are not
// cancellable through this path.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return NewInvalidTransition(o.Status, OrderStatusCancelled)
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// Reprice rewrites the discount, VAT and total fields from a fresh quote and
// recomputes the remaining balance, crediting amounts already settled.
// Only PENDING orders may be repriced.
func (o *Order) Reprice(quote Quote, promoCode string, settled decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return ErrRepriceNonPending
	}

	o.Subtotal = quote.Subtotal
	o.TotalDiscount = quote.TotalDiscount
	o.SubtotalAfterDiscount = quote.SubtotalAfterDiscount
	o.VATRate = quote.VATRate
	o.VATAmount = quote.VATAmount
	o.TotalWithTax = quote.TotalWithTax
	o.PromoCode = promoCode

	remaining := quote.TotalWithTax.Sub(settled)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	o.RemainingBalance = remaining
	o.UpdatedAt = time.Now()
	return nil
}

// ApplyPayment decrements the remaining balance by a settled amount.
// Overpayment floors the balance at zero; no change is issued.
func (o *Order) ApplyPayment(amount decimal.Decimal) {
	remaining := o.RemainingBalance.Sub(amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	o.RemainingBalance = remaining
	o.UpdatedAt = time.Now()
}
