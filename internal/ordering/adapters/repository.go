package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID                    uint               `gorm:"primaryKey"`
	ClientID              uint               `gorm:"index;not null"`
	OrderedAt             time.Time          `gorm:"index;not null"`
	Subtotal              decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	TotalDiscount         decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	SubtotalAfterDiscount decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	VATRate               decimal.Decimal    `gorm:"type:numeric(5,2);not null"`
	VATAmount             decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	TotalWithTax          decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	RemainingBalance      decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	PromoCode             string             `gorm:"size:50"`
	Status                domain.OrderStatus `gorm:"size:20;index;not null;default:'PENDING'"`
	ConfirmedAt           *time.Time
	Items                 []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time        `gorm:"autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order lines
type OrderItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create creates a new order with its items
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := orderToModel(order)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	order.ID = model.ID
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.ID
	}
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves an order with its items by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var model OrderModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return orderToDomain(&model), nil
}

// GetByIDForUpdate retrieves an order by ID holding a SELECT ... FOR UPDATE
// row lock. Must run inside a transaction; the lock is released on commit or
// rollback. Items are loaded in a second query, which is safe because lines
// are immutable after creation.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	tx := db.FromContext(ctx, r.db).WithContext(ctx)

	var model OrderModel
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to lock order", result.Error)
	}

	if err := tx.Where("order_id = ?", id).Find(&model.Items).Error; err != nil {
		return nil, apperrors.NewInternal("failed to load order items", err)
	}

	return orderToDomain(&model), nil
}

// Update updates an existing order's status and derived amounts. Items are
// never rewritten here.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	model := orderToModel(order)

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Omit("Items").
		Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order", result.Error)
	}

	order.UpdatedAt = model.UpdatedAt
	return nil
}

// List retrieves all orders, most recent first
func (r *PostgresOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, db.FromContext(ctx, r.db).WithContext(ctx))
}

// ListByStatus retrieves all orders in the given status, most recent first
func (r *PostgresOrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).Where("status = ?", status)
	return r.list(ctx, query)
}

// ListByDateRange retrieves orders placed within [from, to], most recent first
func (r *PostgresOrderRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("ordered_at BETWEEN ? AND ?", from, to)
	return r.list(ctx, query)
}

// ListByClient retrieves a client's orders, most recent first
func (r *PostgresOrderRepository) ListByClient(ctx context.Context, clientID uint) ([]*domain.Order, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).Where("client_id = ?", clientID)
	return r.list(ctx, query)
}

func (r *PostgresOrderRepository) list(ctx context.Context, query *gorm.DB) ([]*domain.Order, error) {
	var models []OrderModel

	result := query.Preload("Items").Order("ordered_at DESC, id DESC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = orderToDomain(&models[i])
	}

	return orders, nil
}

// TotalValueByClient sums TotalWithTax over a client's confirmed orders
func (r *PostgresOrderRepository) TotalValueByClient(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&OrderModel{}).
		Select("SUM(total_with_tax)").
		Where("client_id = ? AND status = ?", clientID, domain.OrderStatusConfirmed).
		Scan(&total)
	if result.Error != nil {
		return decimal.Zero, apperrors.NewInternal("failed to sum client orders", result.Error)
	}

	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountByClient counts a client's orders regardless of status
func (r *PostgresOrderRepository) CountByClient(ctx context.Context, clientID uint) (int64, error) {
	var count int64

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&OrderModel{}).
		Where("client_id = ?", clientID).
		Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewInternal("failed to count client orders", result.Error)
	}

	return count, nil
}

// orderToModel converts a domain entity to a GORM model
func orderToModel(order *domain.Order) *OrderModel {
	items := make([]OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}

	return &OrderModel{
		ID:                    order.ID,
		ClientID:              order.ClientID,
		OrderedAt:             order.OrderedAt,
		Subtotal:              order.Subtotal,
		TotalDiscount:         order.TotalDiscount,
		SubtotalAfterDiscount: order.SubtotalAfterDiscount,
		VATRate:               order.VATRate,
		VATAmount:             order.VATAmount,
		TotalWithTax:          order.TotalWithTax,
		RemainingBalance:      order.RemainingBalance,
		PromoCode:             order.PromoCode,
		Status:                order.Status,
		ConfirmedAt:           order.ConfirmedAt,
		Items:                 items,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
}

// orderToDomain converts a GORM model to a domain entity
func orderToDomain(model *OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}

	return &domain.Order{
		ID:                    model.ID,
		ClientID:              model.ClientID,
		OrderedAt:             model.OrderedAt,
		Subtotal:              model.Subtotal,
		TotalDiscount:         model.TotalDiscount,
		SubtotalAfterDiscount: model.SubtotalAfterDiscount,
		VATRate:               model.VATRate,
		VATAmount:             model.VATAmount,
		TotalWithTax:          model.TotalWithTax,
		RemainingBalance:      model.RemainingBalance,
		PromoCode:             model.PromoCode,
		Status:                model.Status,
		ConfirmedAt:           model.ConfirmedAt,
		Items:                 items,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}
