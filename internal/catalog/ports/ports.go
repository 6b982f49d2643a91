package ports

import (
	"context"

	"github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uint) (*domain.Product, error)

	// GetByIDForUpdate retrieves a product by ID holding a row lock for the
	// rest of the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id uint) (*domain.Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// ListActive retrieves all non-retired products
	ListActive(ctx context.Context) ([]*domain.Product, error)

	// SearchByName retrieves products whose name contains the given fragment
	SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error)
}
