package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
	apperrors "github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository
type MockPaymentRepository struct {
	payments map[uint]*domain.Payment
	nextID   uint
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[uint]*domain.Payment), nextID: 1}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.ID = m.nextID
	m.nextID++
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, domain.NewPaymentNotFound(id)
	}
	copied := *payment
	return &copied, nil
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Payment, error) {
	return m.GetByID(ctx, id)
}

func (m *MockPaymentRepository) GetByNumber(ctx context.Context, number string) (*domain.Payment, error) {
	for _, payment := range m.payments {
		if payment.Number == number {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, domain.NewPaymentNotFoundByNumber(number)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	if _, ok := m.payments[payment.ID]; !ok {
		return domain.NewPaymentNotFound(payment.ID)
	}
	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID uint) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range m.payments {
		if payment.OrderID == orderID {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range m.payments {
		if payment.Status == status {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range m.payments {
		if !payment.PaidAt.Before(from) && !payment.PaidAt.After(to) {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, payment := range m.payments {
		if payment.Overdue(asOf) {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) SettledTotalByOrder(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, payment := range m.payments {
		if payment.OrderID == orderID && payment.Status == domain.PaymentStatusSettled {
			total = total.Add(payment.Amount)
		}
	}
	return total, nil
}

// MockOrderLedger tracks balances per order
type MockOrderLedger struct {
	balances map[uint]decimal.Decimal
	applied  int
}

func NewMockOrderLedger() *MockOrderLedger {
	return &MockOrderLedger{balances: make(map[uint]decimal.Decimal)}
}

func (m *MockOrderLedger) EnsureAcceptsPayments(ctx context.Context, orderID uint) error {
	if _, ok := m.balances[orderID]; !ok {
		return apperrors.NewNotFound("order", orderID)
	}
	return nil
}

func (m *MockOrderLedger) ApplySettledPayment(ctx context.Context, orderID uint, amount decimal.Decimal) error {
	balance, ok := m.balances[orderID]
	if !ok {
		return apperrors.NewNotFound("order", orderID)
	}
	m.applied++
	balance = balance.Sub(amount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	m.balances[orderID] = balance
	return nil
}

// MockEventPublisher counts published payment events
type MockEventPublisher struct {
	recorded int
	settled  int
}

func (m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, payment *domain.Payment) error {
	m.recorded++
	return nil
}

func (m *MockEventPublisher) PublishPaymentSettled(ctx context.Context, payment *domain.Payment) error {
	m.settled++
	return nil
}

// MockTxRunner runs the function directly, without a database
type MockTxRunner struct{}

func (m *MockTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	useCase *PaymentUseCase
	repo    *MockPaymentRepository
	ledger  *MockOrderLedger
	events  *MockEventPublisher
}

func newFixture() *fixture {
	f := &fixture{
		repo:   NewMockPaymentRepository(),
		ledger: NewMockOrderLedger(),
		events: &MockEventPublisher{},
	}
	f.useCase = NewPaymentUseCase(f.repo, f.ledger, f.events, &MockTxRunner{}, logger.New("test", "debug"))
	return f
}

func (f *fixture) addOrder(id uint, balance string) {
	f.ledger.balances[id] = decimal.RequireFromString(balance)
}

func TestRecordPayment_CashAutoSettles(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "627.00")

	payment, err := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1,
		Method:  domain.MethodCash,
		Amount:  decimal.RequireFromString("627.00"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if payment.Status != domain.PaymentStatusSettled || payment.SettledAt == nil {
		t.Error("cash payment not settled on recording")
	}
	if !f.ledger.balances[1].IsZero() {
		t.Errorf("balance = %s, want 0", f.ledger.balances[1])
	}
	if f.events.recorded != 1 {
		t.Errorf("recorded events = %d, want 1", f.events.recorded)
	}
}

func TestRecordPayment_CashCeiling(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "50000.00")

	if _, err := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCash, Amount: decimal.NewFromInt(20000),
	}); err != nil {
		t.Errorf("cash of 20000 should be accepted, got %v", err)
	}

	_, err := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCash, Amount: decimal.NewFromInt(20001),
	})
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("cash of 20001 should be rejected, got %v", err)
	}
}

func TestRecordPayment_CheckStaysPending(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "500.00")
	due := time.Now().AddDate(0, 0, 30)

	payment, err := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1,
		Method:  domain.MethodCheck,
		Amount:  decimal.NewFromInt(500),
		DueDate: &due,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("status = %s, want PENDING", payment.Status)
	}
	// A pending payment does not touch the balance.
	if want := decimal.RequireFromString("500.00"); !f.ledger.balances[1].Equal(want) {
		t.Errorf("balance = %s, want %s", f.ledger.balances[1], want)
	}
}

func TestRecordPayment_UnknownOrder(t *testing.T) {
	f := newFixture()

	_, err := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 99, Method: domain.MethodCash, Amount: decimal.NewFromInt(10),
	})
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestProcessPayment(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "500.00")

	payment, _ := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodTransfer, Amount: decimal.NewFromInt(300),
	})

	settled, err := f.useCase.ProcessPayment(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settled.Status != domain.PaymentStatusSettled {
		t.Errorf("status = %s, want SETTLED", settled.Status)
	}
	if want := decimal.RequireFromString("200.00"); !f.ledger.balances[1].Equal(want) {
		t.Errorf("balance = %s, want %s", f.ledger.balances[1], want)
	}
	if f.events.settled != 1 {
		t.Errorf("settled events = %d, want 1", f.events.settled)
	}

	// Processing a settled payment fails and does not double-apply.
	if _, err := f.useCase.ProcessPayment(context.Background(), payment.ID); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if f.ledger.applied != 1 {
		t.Errorf("balance applied %d times, want 1", f.ledger.applied)
	}
}

func TestProcessPayment_OverpaymentFloors(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "100.00")

	payment, _ := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodTransfer, Amount: decimal.NewFromInt(250),
	})

	if _, err := f.useCase.ProcessPayment(context.Background(), payment.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !f.ledger.balances[1].IsZero() {
		t.Errorf("balance = %s, want 0", f.ledger.balances[1])
	}
}

func TestRejectPayment(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "500.00")

	payment, _ := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCheck, Amount: decimal.NewFromInt(500),
	})

	rejected, err := f.useCase.RejectPayment(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rejected.Status != domain.PaymentStatusRejected {
		t.Errorf("status = %s, want REJECTED", rejected.Status)
	}
	// Rejected money was never counted toward the balance.
	if want := decimal.RequireFromString("500.00"); !f.ledger.balances[1].Equal(want) {
		t.Errorf("balance = %s, want %s", f.ledger.balances[1], want)
	}

	// Rejected payments cannot be processed afterwards.
	if _, err := f.useCase.ProcessPayment(context.Background(), payment.ID); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateDueDate(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "500.00")
	due := time.Now().AddDate(0, 0, 30)

	payment, _ := f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCheck, Amount: decimal.NewFromInt(500), DueDate: &due,
	})

	later := due.AddDate(0, 0, 15)
	updated, err := f.useCase.UpdateDueDate(context.Background(), payment.ID, later)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(later) {
		t.Error("due date not updated")
	}

	// Only PENDING payments can be rescheduled.
	f.useCase.ProcessPayment(context.Background(), payment.ID)
	if _, err := f.useCase.UpdateDueDate(context.Background(), payment.ID, later); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListOverduePayments(t *testing.T) {
	f := newFixture()
	f.addOrder(1, "1000.00")
	past := time.Now().AddDate(0, 0, -10)
	future := time.Now().AddDate(0, 0, 10)

	f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCheck, Amount: decimal.NewFromInt(100), DueDate: &past,
	})
	f.useCase.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: 1, Method: domain.MethodCheck, Amount: decimal.NewFromInt(200), DueDate: &future,
	})

	overdue, err := f.useCase.ListOverduePayments(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("overdue count = %d, want 1", len(overdue))
	}
	if !overdue[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("wrong payment flagged overdue: %s", overdue[0].Amount)
	}
}
