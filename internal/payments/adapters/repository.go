package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// PaymentModel is the GORM model for payments (persistence layer)
type PaymentModel struct {
	ID        uint                 `gorm:"primaryKey"`
	Number    string               `gorm:"size:50;uniqueIndex;not null"`
	OrderID   uint                 `gorm:"index;not null"`
	Amount    decimal.Decimal      `gorm:"type:numeric(12,2);not null"`
	Method    domain.PaymentMethod `gorm:"size:20;not null"`
	Status    domain.PaymentStatus `gorm:"size:20;index;not null;default:'PENDING'"`
	PaidAt    time.Time            `gorm:"index;not null"`
	DueDate   *time.Time
	SettledAt *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *gorm.DB
}

// NewPostgresPaymentRepository creates a new PostgreSQL payment repository
func NewPostgresPaymentRepository(db *gorm.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// Migrate runs auto-migration for the payment model
func (r *PostgresPaymentRepository) Migrate() error {
	return r.db.AutoMigrate(&PaymentModel{})
}

// Create creates a new payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	model := paymentToModel(payment)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	payment.ID = model.ID
	payment.CreatedAt = model.CreatedAt
	payment.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a payment by ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var model PaymentModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewPaymentNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get payment", result.Error)
	}

	return paymentToDomain(&model), nil
}

// GetByIDForUpdate retrieves a payment by ID holding a SELECT ... FOR UPDATE
// row lock. Must run inside a transaction.
func (r *PostgresPaymentRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Payment, error) {
	var model PaymentModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewPaymentNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to lock payment", result.Error)
	}

	return paymentToDomain(&model), nil
}

// GetByNumber retrieves a payment by its payment number
func (r *PostgresPaymentRepository) GetByNumber(ctx context.Context, number string) (*domain.Payment, error) {
	var model PaymentModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("number = ?", number).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewPaymentNotFoundByNumber(number)
		}
		return nil, apperrors.NewInternal("failed to get payment", result.Error)
	}

	return paymentToDomain(&model), nil
}

// Update updates an existing payment
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	model := paymentToModel(payment)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update payment", result.Error)
	}

	payment.UpdatedAt = model.UpdatedAt
	return nil
}

// ListByOrder retrieves all payments recorded against an order
func (r *PostgresPaymentRepository) ListByOrder(ctx context.Context, orderID uint) ([]*domain.Payment, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).Where("order_id = ?", orderID)
	return r.list(query)
}

// ListByStatus retrieves all payments in the given status
func (r *PostgresPaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).Where("status = ?", status)
	return r.list(query)
}

// ListByDateRange retrieves payments dated within [from, to]
func (r *PostgresPaymentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("paid_at BETWEEN ? AND ?", from, to)
	return r.list(query)
}

// ListOverdue retrieves pending payments whose due date is before asOf
func (r *PostgresPaymentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error) {
	query := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.PaymentStatusPending, asOf)
	return r.list(query)
}

func (r *PostgresPaymentRepository) list(query *gorm.DB) ([]*domain.Payment, error) {
	var models []PaymentModel

	result := query.Order("paid_at DESC, id DESC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list payments", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i := range models {
		payments[i] = paymentToDomain(&models[i])
	}

	return payments, nil
}

// SettledTotalByOrder sums the settled payments against an order
func (r *PostgresPaymentRepository) SettledTotalByOrder(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Model(&PaymentModel{}).
		Select("SUM(amount)").
		Where("order_id = ? AND status = ?", orderID, domain.PaymentStatusSettled).
		Scan(&total)
	if result.Error != nil {
		return decimal.Zero, apperrors.NewInternal("failed to sum settled payments", result.Error)
	}

	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// paymentToModel converts a domain entity to a GORM model
func paymentToModel(payment *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:        payment.ID,
		Number:    payment.Number,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    payment.Status,
		PaidAt:    payment.PaidAt,
		DueDate:   payment.DueDate,
		SettledAt: payment.SettledAt,
		CreatedAt: payment.CreatedAt,
		UpdatedAt: payment.UpdatedAt,
	}
}

// paymentToDomain converts a GORM model to a domain entity
func paymentToDomain(model *PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:        model.ID,
		Number:    model.Number,
		OrderID:   model.OrderID,
		Amount:    model.Amount,
		Method:    model.Method,
		Status:    model.Status,
		PaidAt:    model.PaidAt,
		DueDate:   model.DueDate,
		SettledAt: model.SettledAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
