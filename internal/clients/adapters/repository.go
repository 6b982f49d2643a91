package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
)

// ClientModel is the GORM model for clients (persistence layer)
type ClientModel struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"size:100;not null"`
	Email        string          `gorm:"size:255;uniqueIndex;not null"`
	Tier         domain.Tier     `gorm:"size:20;not null;default:'BASIC'"`
	TotalOrders  int             `gorm:"not null;default:0"`
	TotalSpent   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	FirstOrderAt *time.Time
	LastOrderAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	db *gorm.DB
}

// NewPostgresClientRepository creates a new PostgreSQL client repository
func NewPostgresClientRepository(db *gorm.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

// Migrate runs auto-migration for the client model
func (r *PostgresClientRepository) Migrate() error {
	return r.db.AutoMigrate(&ClientModel{})
}

// Create creates a new client
func (r *PostgresClientRepository) Create(ctx context.Context, client *domain.Client) error {
	model := toModel(client)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	client.ID = model.ID
	client.CreatedAt = model.CreatedAt
	client.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a client by ID
func (r *PostgresClientRepository) GetByID(ctx context.Context, id uint) (*domain.Client, error) {
	var model ClientModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewClientNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get client", result.Error)
	}

	return toDomain(&model), nil
}

// GetByIDForUpdate retrieves a client by ID holding a SELECT ... FOR UPDATE
// row lock. Must run inside a transaction; the lock is released on commit or
// rollback.
func (r *PostgresClientRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Client, error) {
	var model ClientModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewClientNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to lock client", result.Error)
	}

	return toDomain(&model), nil
}

// Update updates an existing client
func (r *PostgresClientRepository) Update(ctx context.Context, client *domain.Client) error {
	model := toModel(client)

	result := db.FromContext(ctx, r.db).WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update client", result.Error)
	}

	client.UpdatedAt = model.UpdatedAt
	return nil
}

// List retrieves all clients
func (r *PostgresClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	var models []ClientModel

	result := db.FromContext(ctx, r.db).WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list clients", result.Error)
	}

	clients := make([]*domain.Client, len(models))
	for i, model := range models {
		clients[i] = toDomain(&model)
	}

	return clients, nil
}

// toModel converts a domain entity to a GORM model
func toModel(client *domain.Client) *ClientModel {
	return &ClientModel{
		ID:           client.ID,
		Name:         client.Name,
		Email:        client.Email,
		Tier:         client.Tier,
		TotalOrders:  client.TotalOrders,
		TotalSpent:   client.TotalSpent,
		FirstOrderAt: client.FirstOrderAt,
		LastOrderAt:  client.LastOrderAt,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *ClientModel) *domain.Client {
	return &domain.Client{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Tier:         model.Tier,
		TotalOrders:  model.TotalOrders,
		TotalSpent:   model.TotalSpent,
		FirstOrderAt: model.FirstOrderAt,
		LastOrderAt:  model.LastOrderAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
