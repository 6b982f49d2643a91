package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// ProductModel is the GORM model for products (persistence layer)
type ProductModel struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:100;not null;index"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Retired   bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate runs auto-migration for the product model
func (r *PostgresProductRepository) Migrate() error {
	return r.db.AutoMigrate(&ProductModel{})
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return toDomain(&model), nil
}

// GetByIDForUpdate retrieves a product by ID holding a SELECT ... FOR UPDATE
// row lock. Must run inside a transaction; the lock is released on commit or
// rollback.
func (r *PostgresProductRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error) {
	var model ProductModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to lock product", result.Error)
	}

	return toDomain(&model), nil
}

// Update updates an existing product
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toModel(product)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update product", result.Error)
	}

	product.UpdatedAt = model.UpdatedAt
	return nil
}

// ListActive retrieves all non-retired products
func (r *PostgresProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("retired = ?", false).
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list products", result.Error)
	}

	return toDomainSlice(models), nil
}

// SearchByName retrieves products whose name contains the fragment
func (r *PostgresProductRepository) SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error) {
	var models []ProductModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Where("name ILIKE ?", "%"+fragment+"%").
		Order("id").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to search products", result.Error)
	}

	return toDomainSlice(models), nil
}

func toDomainSlice(models []ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i, model := range models {
		products[i] = toDomain(&model)
	}
	return products
}

// toModel converts a domain entity to a GORM model
func toModel(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Stock:     product.Stock,
		Retired:   product.Retired,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		UnitPrice: model.UnitPrice,
		Stock:     model.Stock,
		Retired:   model.Retired,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
