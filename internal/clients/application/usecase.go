package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/internal/clients/ports"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// ClientUseCase handles client directory and loyalty logic
type ClientUseCase struct {
	repo ports.ClientRepository
	log  *logger.Logger
}

// NewClientUseCase creates a new client use case
func NewClientUseCase(repo ports.ClientRepository, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, log: log}
}

// CreateClientInput represents the input for creating a client
type CreateClientInput struct {
	Name  string
	Email string
}

// CreateClient registers a new client starting at BASIC tier
func (uc *ClientUseCase) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	client, err := domain.NewClient(input.Name, input.Email)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, errors.NewInternal("failed to create client", err)
	}

	uc.log.WithContext(ctx).Info("client created",
		zap.Uint("client_id", client.ID),
		zap.String("tier", string(client.Tier)),
	)

	return client, nil
}

// GetClient retrieves a client by ID
func (uc *ClientUseCase) GetClient(ctx context.Context, id uint) (*domain.Client, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListClients retrieves all clients
func (uc *ClientUseCase) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return uc.repo.List(ctx)
}

// UpdateClientInput represents the input for updating a client
type UpdateClientInput struct {
	ID    uint
	Name  string
	Email string
}

// UpdateClient updates the client's contact details. Loyalty counters and
// tier are never writable through this path.
func (uc *ClientUseCase) UpdateClient(ctx context.Context, input UpdateClientInput) (*domain.Client, error) {
	client, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Email != "" {
		client.Email = input.Email
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, errors.NewInternal("failed to update client", err)
	}

	return client, nil
}

// RecordConfirmedOrder applies one confirmed order to the client's loyalty
// statistics. The order lifecycle calls this exactly once per confirmation,
// inside the confirming transaction. The client row is read under a row lock
// so concurrent confirmations for the same client serialize instead of
// overwriting each other's counters.
func (uc *ClientUseCase) RecordConfirmedOrder(ctx context.Context, clientID uint, orderTotal decimal.Decimal) (*domain.Client, error) {
	client, err := uc.repo.GetByIDForUpdate(ctx, clientID)
	if err != nil {
		return nil, err
	}

	previousTier := client.Tier
	client.RecordConfirmedOrder(orderTotal, time.Now())

	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, errors.NewInternal("failed to update client loyalty stats", err)
	}

	if client.Tier != previousTier {
		uc.log.WithContext(ctx).Info("client tier upgraded",
			zap.Uint("client_id", client.ID),
			zap.String("from", string(previousTier)),
			zap.String("to", string(client.Tier)),
		)
	}

	return client, nil
}
