package ports

import (
	"context"

	"github.com/anouar36/B2B-TradeHub/internal/clients/domain"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID
	GetByID(ctx context.Context, id uint) (*domain.Client, error)

	// GetByIDForUpdate retrieves a client by ID holding a row lock for the
	// duration of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id uint) (*domain.Client, error)

	// Update updates an existing client
	Update(ctx context.Context, client *domain.Client) error

	// List retrieves all clients
	List(ctx context.Context) ([]*domain.Client, error)
}
