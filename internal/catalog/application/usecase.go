package application

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	"github.com/anouar36/B2B-TradeHub/internal/catalog/ports"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// CatalogUseCase handles product management and stock reservation
type CatalogUseCase struct {
	repo ports.ProductRepository
	log  *logger.Logger
}

// NewCatalogUseCase creates a new catalog use case
func NewCatalogUseCase(repo ports.ProductRepository, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, log: log}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// CreateProduct adds a new product to the catalog
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.UnitPrice, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, errors.NewInternal("failed to create product", err)
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("unit_price", product.UnitPrice.StringFixed(2)),
		zap.Int("stock", product.Stock),
	)

	return product, nil
}

// GetProduct retrieves a product by ID
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListAvailableProducts retrieves all non-retired products
func (uc *CatalogUseCase) ListAvailableProducts(ctx context.Context) ([]*domain.Product, error) {
	return uc.repo.ListActive(ctx)
}

// SearchProducts retrieves products matching a name fragment
func (uc *CatalogUseCase) SearchProducts(ctx context.Context, fragment string) ([]*domain.Product, error) {
	return uc.repo.SearchByName(ctx, fragment)
}

// UpdateProductInput represents the input for updating a product
type UpdateProductInput struct {
	ID        uint
	Name      string
	UnitPrice *decimal.Decimal
	Stock     *int
}

// UpdateProduct updates a product's name, price or stock level
func (uc *CatalogUseCase) UpdateProduct(ctx context.Context, input UpdateProductInput) (*domain.Product, error) {
	product, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, errors.NewInternal("failed to update product", err)
	}

	return product, nil
}

// RetireProduct takes a product off the catalog
func (uc *CatalogUseCase) RetireProduct(ctx context.Context, id uint) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	product.Retire()
	if err := uc.repo.Update(ctx, product); err != nil {
		return errors.NewInternal("failed to retire product", err)
	}

	uc.log.WithContext(ctx).Info("product retired", zap.Uint("product_id", id))
	return nil
}

// CheckAvailable reports whether the product exists, is not retired, and has
// at least the requested stock. Used at order creation to fail fast; stock is
// not reserved here.
func (uc *CatalogUseCase) CheckAvailable(ctx context.Context, productID uint, quantity int) (bool, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.Available(quantity), nil
}

// CommitDeduction decrements stock at order confirmation. The product row is
// re-read under a row lock so concurrent confirmations against the same
// product cannot oversell: availability observed at creation time is not
// trusted here.
func (uc *CatalogUseCase) CommitDeduction(ctx context.Context, productID uint, quantity int) error {
	product, err := uc.repo.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.Deduct(quantity); err != nil {
		uc.log.WithContext(ctx).Warn("stock deduction refused",
			zap.Uint("product_id", productID),
			zap.Int("requested", quantity),
			zap.Int("available", product.Stock),
		)
		return err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return errors.NewInternal("failed to commit stock deduction", err)
	}

	uc.log.WithContext(ctx).Info("stock deducted",
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("remaining", product.Stock),
	)

	return nil
}
