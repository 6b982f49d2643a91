package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	"github.com/anouar36/B2B-TradeHub/internal/ordering/ports"
	promos "github.com/anouar36/B2B-TradeHub/internal/promos/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// OrderUseCase orchestrates the order lifecycle: pricing, stock, loyalty,
// promo consumption and payment balance tracking.
type OrderUseCase struct {
	orders  ports.OrderRepository
	clients ports.ClientDirectory
	catalog ports.ProductCatalog
	promos  ports.PromoResolver
	ledger  ports.PaymentLedger
	events  ports.EventPublisher
	tx      ports.TxRunner
	vatRate decimal.Decimal
	log     *logger.Logger
}

// NewOrderUseCase creates a new order use case
func NewOrderUseCase(
	orders ports.OrderRepository,
	clients ports.ClientDirectory,
	catalog ports.ProductCatalog,
	promos ports.PromoResolver,
	ledger ports.PaymentLedger,
	events ports.EventPublisher,
	tx ports.TxRunner,
	vatRate decimal.Decimal,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:  orders,
		clients: clients,
		catalog: catalog,
		promos:  promos,
		ledger:  ledger,
		events:  events,
		tx:      tx,
		vatRate: vatRate,
		log:     log,
	}
}

// OrderItemInput represents one requested line of a new order
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput represents the input for placing an order
type CreateOrderInput struct {
	ClientID  uint
	Items     []OrderItemInput
	PromoCode string
	OrderedAt time.Time
}

// CreateOrder validates client, products and stock, prices the order with
// the client's loyalty tier and any valid promo code, and persists it as
// PENDING. Stock is checked but not deducted until confirmation.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	client, err := uc.clients.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, err := uc.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		available, err := uc.catalog.CheckAvailable(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, errors.NewInsufficientStock(line.ProductID, line.Quantity, product.Stock)
		}

		// Unit price is snapshotted from the catalog at order time.
		item, err := domain.NewOrderItem(product.ID, line.Quantity, product.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	orderedAt := input.OrderedAt
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	// An unknown or invalid promo code is not an error at creation: the
	// order is simply priced without it and the code is not retained.
	promoCode := ""
	var promo *promos.PromoCode
	if input.PromoCode != "" {
		promo, err = uc.promos.Resolve(ctx, input.PromoCode, orderedAt)
		if err != nil {
			return nil, err
		}
		if promo != nil {
			promoCode = promo.Code
		}
	}

	quote := domain.PriceOrder(items, client.Tier, promo, uc.vatRate)

	order, err := domain.NewOrder(client.ID, items, quote, promoCode, orderedAt)
	if err != nil {
		return nil, err
	}

	if err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		return uc.orders.Create(ctx, order)
	}); err != nil {
		return nil, errors.NewInternal("failed to create order", err)
	}

	uc.log.WithContext(ctx).Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("client_id", order.ClientID),
		zap.String("total_with_tax", order.TotalWithTax.StringFixed(2)),
	)

	if err := uc.events.PublishOrderCreated(ctx, order); err != nil {
		uc.log.WithContext(ctx).Error("failed to publish order created event", zap.Error(err))
	}

	return order, nil
}

// ConfirmOrder flips a fully paid PENDING order to CONFIRMED. In one
// transaction it deducts the reserved stock under row locks, records the
// order in the client's loyalty statistics, and consumes the promo code.
func (uc *OrderUseCase) ConfirmOrder(ctx context.Context, id uint) (*domain.Order, error) {
	var order *domain.Order

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = uc.orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := order.Confirm(time.Now()); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := uc.catalog.CommitDeduction(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := uc.clients.RecordConfirmedOrder(ctx, order.ClientID, order.TotalWithTax); err != nil {
			return err
		}

		if order.PromoCode != "" {
			if err := uc.promos.MarkUsed(ctx, order.PromoCode); err != nil {
				return err
			}
		}

		return uc.orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order confirmed",
		zap.Uint("order_id", order.ID),
		zap.Uint("client_id", order.ClientID),
	)

	if err := uc.events.PublishOrderConfirmed(ctx, order); err != nil {
		uc.log.WithContext(ctx).Error("failed to publish order confirmed event", zap.Error(err))
	}

	return order, nil
}

// CancelOrder cancels a PENDING order. Nothing to release: stock is only
// deducted at confirmation.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, id uint) (*domain.Order, error) {
	var order *domain.Order

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = uc.orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		return uc.orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order cancelled", zap.Uint("order_id", order.ID))

	if err := uc.events.PublishOrderCancelled(ctx, order); err != nil {
		uc.log.WithContext(ctx).Error("failed to publish order cancelled event", zap.Error(err))
	}

	return order, nil
}

// ApplyPromoCode re-prices a PENDING order with the given promo code.
// Settled payments stay credited: the remaining balance becomes the new
// total minus what has already been settled, floored at zero.
func (uc *OrderUseCase) ApplyPromoCode(ctx context.Context, id uint, code string) (*domain.Order, error) {
	var order *domain.Order

	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = uc.orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrRepriceNonPending
		}

		promo, err := uc.promos.Resolve(ctx, code, time.Now())
		if err != nil {
			return err
		}
		if promo == nil {
			return errors.NewValidation("promo code is invalid or expired",
				map[string]interface{}{"code": code})
		}

		client, err := uc.clients.GetClient(ctx, order.ClientID)
		if err != nil {
			return err
		}

		settled, err := uc.ledger.SettledTotal(ctx, order.ID)
		if err != nil {
			return err
		}

		quote := domain.PriceOrder(order.Items, client.Tier, promo, order.VATRate)
		if err := order.Reprice(quote, promo.Code, settled); err != nil {
			return err
		}

		return uc.orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("promo code applied",
		zap.Uint("order_id", order.ID),
		zap.String("code", order.PromoCode),
		zap.String("total_with_tax", order.TotalWithTax.StringFixed(2)),
	)

	return order, nil
}

// ApplyPayment decrements the order's remaining balance by a settled
// payment amount. Called by the payment ledger inside its settling
// transaction; overpayment floors the balance at zero.
func (uc *OrderUseCase) ApplyPayment(ctx context.Context, id uint, amount decimal.Decimal) (*domain.Order, error) {
	order, err := uc.orders.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, errors.NewValidation("cannot record payment against a closed order",
			map[string]interface{}{"order_id": order.ID, "status": string(order.Status)})
	}

	order.ApplyPayment(amount)
	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, errors.NewInternal("failed to update order balance", err)
	}

	return order, nil
}

// GetOrder retrieves an order with its items by ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return uc.orders.GetByID(ctx, id)
}

// ListOrders retrieves all orders, most recent first
func (uc *OrderUseCase) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return uc.orders.List(ctx)
}

// ListOrdersByStatus retrieves all orders in the given status
func (uc *OrderUseCase) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed,
		domain.OrderStatusCancelled, domain.OrderStatusRejected:
	default:
		return nil, errors.NewValidation("unknown order status",
			map[string]interface{}{"status": string(status)})
	}
	return uc.orders.ListByStatus(ctx, status)
}

// ListPendingOrders retrieves all orders awaiting payment or confirmation
func (uc *OrderUseCase) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	return uc.orders.ListByStatus(ctx, domain.OrderStatusPending)
}

// ListOrdersByDateRange retrieves orders placed within [from, to]
func (uc *OrderUseCase) ListOrdersByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	if to.Before(from) {
		return nil, errors.NewValidation("date range end precedes start", nil)
	}
	return uc.orders.ListByDateRange(ctx, from, to)
}

// ClientOrderHistory retrieves a client's orders, most recent first
func (uc *OrderUseCase) ClientOrderHistory(ctx context.Context, clientID uint) ([]*domain.Order, error) {
	if _, err := uc.clients.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return uc.orders.ListByClient(ctx, clientID)
}

// ClientOrderStats summarizes a client's ordering activity
type ClientOrderStats struct {
	ClientID       uint
	OrderCount     int64
	ConfirmedValue decimal.Decimal
}

// GetClientOrderStats returns the order count and confirmed order value
// for a client
func (uc *OrderUseCase) GetClientOrderStats(ctx context.Context, clientID uint) (*ClientOrderStats, error) {
	if _, err := uc.clients.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	count, err := uc.orders.CountByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	total, err := uc.orders.TotalValueByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return &ClientOrderStats{ClientID: clientID, OrderCount: count, ConfirmedValue: total}, nil
}
