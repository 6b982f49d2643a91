package ports

import (
	"context"

	"github.com/anouar36/B2B-TradeHub/internal/promos/domain"
)

// PromoCodeRepository defines the interface for promo code persistence
type PromoCodeRepository interface {
	// Create creates a new promo code
	Create(ctx context.Context, promo *domain.PromoCode) error

	// GetByCode retrieves a promo code by its code string
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)

	// GetByCodeForUpdate retrieves a promo code by its code string holding a
	// row lock for the duration of the surrounding transaction
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.PromoCode, error)

	// Update updates an existing promo code
	Update(ctx context.Context, promo *domain.PromoCode) error

	// List retrieves all promo codes
	List(ctx context.Context) ([]*domain.PromoCode, error)
}

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	// InTx runs fn inside a transaction, committing on nil and rolling
	// back on error
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
