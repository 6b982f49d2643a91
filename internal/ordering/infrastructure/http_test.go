package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	clients "github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/internal/ordering/application"
	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	promos "github.com/anouar36/B2B-TradeHub/internal/promos/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

type stubOrderRepo struct {
	orders map[uint]*domain.Order
	nextID uint
}

func (s *stubOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	s.nextID++
	order.ID = s.nextID
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

func (s *stubOrderRepo) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	return s.GetByID(ctx, id)
}

func (s *stubOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range s.orders {
		result = append(result, order)
	}
	return result, nil
}

func (s *stubOrderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range s.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (s *stubOrderRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	return s.List(ctx)
}

func (s *stubOrderRepo) ListByClient(ctx context.Context, clientID uint) ([]*domain.Order, error) {
	return s.List(ctx)
}

func (s *stubOrderRepo) TotalValueByClient(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubOrderRepo) CountByClient(ctx context.Context, clientID uint) (int64, error) {
	return int64(len(s.orders)), nil
}

type stubDirectory struct{ client *clients.Client }

func (s *stubDirectory) GetClient(ctx context.Context, id uint) (*clients.Client, error) {
	if s.client == nil || s.client.ID != id {
		return nil, errors.NewNotFound("client", id)
	}
	return s.client, nil
}

func (s *stubDirectory) RecordConfirmedOrder(ctx context.Context, clientID uint, orderTotal decimal.Decimal) error {
	return nil
}

type stubCatalog struct{ products map[uint]*catalog.Product }

func (s *stubCatalog) GetProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, errors.NewNotFound("product", id)
	}
	return product, nil
}

func (s *stubCatalog) CheckAvailable(ctx context.Context, productID uint, qty int) (bool, error) {
	product, ok := s.products[productID]
	if !ok {
		return false, errors.NewNotFound("product", productID)
	}
	return product.Available(qty), nil
}

func (s *stubCatalog) CommitDeduction(ctx context.Context, productID uint, qty int) error {
	return s.products[productID].Deduct(qty)
}

type stubPromos struct{}

func (s *stubPromos) Resolve(ctx context.Context, code string, asOf time.Time) (*promos.PromoCode, error) {
	return nil, nil
}

func (s *stubPromos) MarkUsed(ctx context.Context, code string) error { return nil }

type stubLedger struct{}

func (s *stubLedger) SettledTotal(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubPublisher struct{}

func (s *stubPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return nil
}

func (s *stubPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	return nil
}

func (s *stubPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return nil
}

type stubTx struct{}

func (s *stubTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubOrderRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubOrderRepo{orders: make(map[uint]*domain.Order)}
	directory := &stubDirectory{client: &clients.Client{ID: 1, Name: "Acme", Tier: clients.TierSilver}}
	products := &stubCatalog{products: map[uint]*catalog.Product{
		10: {ID: 10, Name: "Widget", UnitPrice: decimal.NewFromInt(300), Stock: 5},
		11: {ID: 11, Name: "Gadget", UnitPrice: decimal.NewFromInt(250), Stock: 5},
	}}

	log := logger.New("test", "debug")
	useCase := application.NewOrderUseCase(
		repo, directory, products, &stubPromos{}, &stubLedger{}, &stubPublisher{},
		&stubTx{}, domain.DefaultVATRate, log,
	)

	router := gin.New()
	router.Use(middleware.TraceID(), middleware.ErrorHandler(log))
	NewHTTPHandler(useCase).RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func createOrderRequest(t *testing.T) *http.Request {
	t.Helper()
	body, err := json.Marshal(CreateOrderRequest{
		ClientID: 1,
		Items: []OrderItemRequest{
			{ProductID: 10, Quantity: 1},
			{ProductID: 11, Quantity: 1},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateOrderEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createOrderRequest(t))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.TraceIDHeader))

	var resp struct {
		Data OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "PENDING", resp.Data.Status)
	assert.Equal(t, "550.00", resp.Data.Subtotal)
	assert.Equal(t, "27.50", resp.Data.TotalDiscount)
	assert.Equal(t, "627.00", resp.Data.TotalWithTax)
	assert.Equal(t, "627.00", resp.Data.RemainingBalance)
	assert.Len(t, resp.Data.Items, 2)
}

func TestCreateOrderEndpoint_BadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{"client_id": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderEndpoint_UnknownClient(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(CreateOrderRequest{
		ClientID: 99,
		Items:    []OrderItemRequest{{ProductID: 10, Quantity: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderEndpoint_InsufficientStock(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(CreateOrderRequest{
		ClientID: 1,
		Items:    []OrderItemRequest{{ProductID: 10, Quantity: 6}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeInsufficientStock, resp.Error.Code)
}

func TestConfirmOrderEndpoint_Unpaid(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createOrderRequest(t))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/confirm", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmOrderEndpoint_FullyPaid(t *testing.T) {
	router, repo := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createOrderRequest(t))
	require.Equal(t, http.StatusCreated, w.Code)

	// Settle out of band, as the payment ledger would.
	repo.orders[1].ApplyPayment(repo.orders[1].RemainingBalance)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/confirm", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Data.Status)
	assert.NotEmpty(t, resp.Data.ConfirmedAt)
}

func TestCancelOrderEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createOrderRequest(t))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/cancel", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Cancelling again hits the terminal-state guard.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/cancel", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPendingOrdersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, createOrderRequest(t))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/pending", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "PENDING", resp.Data[0].Status)
}
