package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouar36/B2B-TradeHub/internal/promos/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// PromoCodeModel is the GORM model for promo codes (persistence layer)
type PromoCodeModel struct {
	ID              uint            `gorm:"primaryKey"`
	Code            string          `gorm:"size:50;uniqueIndex;not null"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	ValidFrom       time.Time       `gorm:"not null"`
	ValidUntil      time.Time       `gorm:"not null"`
	SingleUse       bool            `gorm:"not null;default:false"`
	Used            bool            `gorm:"not null;default:false"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PromoCodeModel) TableName() string {
	return "promo_codes"
}

// PostgresPromoCodeRepository implements PromoCodeRepository using PostgreSQL
type PostgresPromoCodeRepository struct {
	db *gorm.DB
}

// NewPostgresPromoCodeRepository creates a new PostgreSQL promo code repository
func NewPostgresPromoCodeRepository(db *gorm.DB) *PostgresPromoCodeRepository {
	return &PostgresPromoCodeRepository{db: db}
}

// Migrate runs auto-migration for the promo code model
func (r *PostgresPromoCodeRepository) Migrate() error {
	return r.db.AutoMigrate(&PromoCodeModel{})
}

// Create creates a new promo code
func (r *PostgresPromoCodeRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	model := toModel(promo)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	promo.ID = model.ID
	promo.CreatedAt = model.CreatedAt
	promo.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByCode retrieves a promo code by its code string
func (r *PostgresPromoCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var model PromoCodeModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).Where("code = ?", code).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewPromoCodeNotFound(code)
		}
		return nil, apperrors.NewInternal("failed to get promo code", result.Error)
	}

	return toDomain(&model), nil
}

// GetByCodeForUpdate retrieves a promo code by its code string holding a
// SELECT ... FOR UPDATE row lock. Must run inside a transaction; the lock is
// released on commit or rollback.
func (r *PostgresPromoCodeRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.PromoCode, error) {
	var model PromoCodeModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewPromoCodeNotFound(code)
		}
		return nil, apperrors.NewInternal("failed to lock promo code", result.Error)
	}

	return toDomain(&model), nil
}

// Update updates an existing promo code
func (r *PostgresPromoCodeRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	model := toModel(promo)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update promo code", result.Error)
	}

	promo.UpdatedAt = model.UpdatedAt
	return nil
}

// List retrieves all promo codes
func (r *PostgresPromoCodeRepository) List(ctx context.Context) ([]*domain.PromoCode, error) {
	var models []PromoCodeModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list promo codes", result.Error)
	}

	promos := make([]*domain.PromoCode, len(models))
	for i, model := range models {
		promos[i] = toDomain(&model)
	}

	return promos, nil
}

// toModel converts a domain entity to a GORM model
func toModel(promo *domain.PromoCode) *PromoCodeModel {
	return &PromoCodeModel{
		ID:              promo.ID,
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent,
		ValidFrom:       promo.ValidFrom,
		ValidUntil:      promo.ValidUntil,
		SingleUse:       promo.SingleUse,
		Used:            promo.Used,
		Active:          promo.Active,
		CreatedAt:       promo.CreatedAt,
		UpdatedAt:       promo.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *PromoCodeModel) *domain.PromoCode {
	return &domain.PromoCode{
		ID:              model.ID,
		Code:            model.Code,
		DiscountPercent: model.DiscountPercent,
		ValidFrom:       model.ValidFrom,
		ValidUntil:      model.ValidUntil,
		SingleUse:       model.SingleUse,
		Used:            model.Used,
		Active:          model.Active,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
