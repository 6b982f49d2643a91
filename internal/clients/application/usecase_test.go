package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// MockClientRepository is an in-memory implementation of ClientRepository.
// It counts locked reads separately from plain ones so tests can verify
// which read path a use case takes.
type MockClientRepository struct {
	clients     map[uint]*domain.Client
	nextID      uint
	plainReads  int
	lockedReads int
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[uint]*domain.Client), nextID: 1}
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	client.ID = m.nextID
	m.nextID++
	copied := *client
	m.clients[client.ID] = &copied
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uint) (*domain.Client, error) {
	m.plainReads++
	return m.read(id)
}

func (m *MockClientRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Client, error) {
	m.lockedReads++
	return m.read(id)
}

func (m *MockClientRepository) read(id uint) (*domain.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, domain.NewClientNotFound(id)
	}
	copied := *client
	return &copied, nil
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := m.clients[client.ID]; !ok {
		return domain.NewClientNotFound(client.ID)
	}
	copied := *client
	m.clients[client.ID] = &copied
	return nil
}

func (m *MockClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	var result []*domain.Client
	for _, client := range m.clients {
		result = append(result, client)
	}
	return result, nil
}

func newClientFixture(t *testing.T) (*ClientUseCase, *MockClientRepository) {
	t.Helper()
	repo := NewMockClientRepository()
	return NewClientUseCase(repo, logger.New("test", "debug")), repo
}

func seedClient(t *testing.T, repo *MockClientRepository) *domain.Client {
	t.Helper()
	client, err := domain.NewClient("Acme Corp", "buyer@acme.test")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := repo.Create(context.Background(), client); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return client
}

func TestRecordConfirmedOrder_AccumulatesCounters(t *testing.T) {
	// Arrange
	uc, repo := newClientFixture(t)
	client := seedClient(t, repo)

	// Act
	if _, err := uc.RecordConfirmedOrder(context.Background(), client.ID, decimal.NewFromInt(600)); err != nil {
		t.Fatalf("RecordConfirmedOrder: %v", err)
	}
	updated, err := uc.RecordConfirmedOrder(context.Background(), client.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("RecordConfirmedOrder: %v", err)
	}

	// Assert: each confirmation lands on top of the previous one
	if updated.TotalOrders != 2 {
		t.Errorf("expected 2 total orders, got %d", updated.TotalOrders)
	}
	if !updated.TotalSpent.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("expected total spent 1100, got %s", updated.TotalSpent)
	}
	if updated.Tier != domain.TierSilver {
		t.Errorf("expected SILVER at 1100 spent, got %s", updated.Tier)
	}
}

func TestRecordConfirmedOrder_ReadsUnderRowLock(t *testing.T) {
	// The loyalty update is a read-modify-write; it must hold the client
	// row lock so concurrent confirmations serialize instead of losing
	// counter increments.
	uc, repo := newClientFixture(t)
	client := seedClient(t, repo)

	if _, err := uc.RecordConfirmedOrder(context.Background(), client.ID, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("RecordConfirmedOrder: %v", err)
	}

	if repo.lockedReads != 1 {
		t.Errorf("expected 1 locked read, got %d", repo.lockedReads)
	}
	if repo.plainReads != 0 {
		t.Errorf("expected no unlocked reads in the update path, got %d", repo.plainReads)
	}
}

func TestRecordConfirmedOrder_UnknownClient(t *testing.T) {
	uc, _ := newClientFixture(t)

	_, err := uc.RecordConfirmedOrder(context.Background(), 99, decimal.NewFromInt(50))
	if err == nil {
		t.Fatal("expected error for unknown client")
	}
}

func TestUpdateClient_KeepsLoyaltyCounters(t *testing.T) {
	uc, repo := newClientFixture(t)
	client := seedClient(t, repo)
	if _, err := uc.RecordConfirmedOrder(context.Background(), client.ID, decimal.NewFromInt(250)); err != nil {
		t.Fatalf("RecordConfirmedOrder: %v", err)
	}

	updated, err := uc.UpdateClient(context.Background(), UpdateClientInput{ID: client.ID, Name: "Acme Industries"})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}

	if updated.Name != "Acme Industries" {
		t.Errorf("expected renamed client, got %q", updated.Name)
	}
	if updated.TotalOrders != 1 || !updated.TotalSpent.Equal(decimal.NewFromInt(250)) {
		t.Errorf("loyalty counters changed by contact update: orders=%d spent=%s", updated.TotalOrders, updated.TotalSpent)
	}
}
