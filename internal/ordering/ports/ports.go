package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	clients "github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	promos "github.com/anouar36/B2B-TradeHub/internal/promos/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates a new order with its items
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items by ID
	GetByID(ctx context.Context, id uint) (*domain.Order, error)

	// GetByIDForUpdate retrieves an order by ID holding a row lock for the
	// rest of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error)

	// Update updates an existing order and its derived amounts
	Update(ctx context.Context, order *domain.Order) error

	// List retrieves all orders, most recent first
	List(ctx context.Context) ([]*domain.Order, error)

	// ListByStatus retrieves all orders in the given status, most recent first
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)

	// ListByDateRange retrieves orders placed within [from, to], most recent first
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error)

	// ListByClient retrieves a client's orders, most recent first
	ListByClient(ctx context.Context, clientID uint) ([]*domain.Order, error)

	// TotalValueByClient sums TotalWithTax over a client's confirmed orders
	TotalValueByClient(ctx context.Context, clientID uint) (decimal.Decimal, error)

	// CountByClient counts a client's orders regardless of status
	CountByClient(ctx context.Context, clientID uint) (int64, error)
}

// ClientDirectory exposes the client context to order workflows
type ClientDirectory interface {
	// GetClient retrieves a client by ID
	GetClient(ctx context.Context, id uint) (*clients.Client, error)

	// RecordConfirmedOrder updates a client's loyalty stats after a
	// confirmed order; must run inside the confirming transaction
	RecordConfirmedOrder(ctx context.Context, clientID uint, orderTotal decimal.Decimal) error
}

// ProductCatalog exposes the catalog context to order workflows
type ProductCatalog interface {
	// GetProduct retrieves a product by ID
	GetProduct(ctx context.Context, id uint) (*catalog.Product, error)

	// CheckAvailable reports whether the product has at least qty units in stock
	CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error)

	// CommitDeduction deducts qty units under a row lock; must run inside
	// the confirming transaction
	CommitDeduction(ctx context.Context, productID uint, qty int) error
}

// PromoResolver exposes the promo context to order workflows
type PromoResolver interface {
	// Resolve returns the promo code if it is valid at asOf, or nil when
	// the code is unknown, expired, inactive, or already used
	Resolve(ctx context.Context, code string, asOf time.Time) (*promos.PromoCode, error)

	// MarkUsed consumes a single-use promo code; unknown codes are ignored
	MarkUsed(ctx context.Context, code string) error
}

// PaymentLedger exposes settled payment totals to order workflows
type PaymentLedger interface {
	// SettledTotal sums the settled payments recorded against an order
	SettledTotal(ctx context.Context, orderID uint) (decimal.Decimal, error)
}

// EventPublisher defines the interface for publishing order events
type EventPublisher interface {
	// PublishOrderCreated publishes an order created event
	PublishOrderCreated(ctx context.Context, order *domain.Order) error

	// PublishOrderConfirmed publishes an order confirmed event
	PublishOrderConfirmed(ctx context.Context, order *domain.Order) error

	// PublishOrderCancelled publishes an order cancelled event
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error
}

// TxRunner runs a function inside a database transaction whose handle
// travels in the context
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
