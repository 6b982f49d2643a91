package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anouar36/B2B-TradeHub/internal/ordering/application"
	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

const dateLayout = "2006-01-02"

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/pending", h.ListPendingOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/confirm", h.ConfirmOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/promo", h.ApplyPromoCode)
	}
	clients := r.Group("/clients")
	{
		clients.GET("/:id/orders", h.ClientOrderHistory)
		clients.GET("/:id/order-stats", h.ClientOrderStats)
	}
}

// OrderItemRequest is one requested line in a create order request
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	ClientID  uint               `json:"client_id" binding:"required"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PromoCode string             `json:"promo_code"`
}

// ApplyPromoRequest is the request body for applying a promo code
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// OrderItemResponse is one line in an order response
type OrderItemResponse struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID                    uint                `json:"id"`
	ClientID              uint                `json:"client_id"`
	OrderedAt             string              `json:"ordered_at"`
	Status                string              `json:"status"`
	Subtotal              string              `json:"subtotal"`
	TotalDiscount         string              `json:"total_discount"`
	SubtotalAfterDiscount string              `json:"subtotal_after_discount"`
	VATRate               string              `json:"vat_rate"`
	VATAmount             string              `json:"vat_amount"`
	TotalWithTax          string              `json:"total_with_tax"`
	RemainingBalance      string              `json:"remaining_balance"`
	PromoCode             string              `json:"promo_code,omitempty"`
	ConfirmedAt           string              `json:"confirmed_at,omitempty"`
	Items                 []OrderItemResponse `json:"items"`
}

func toResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: item.LineTotal.StringFixed(2),
		}
	}

	resp := OrderResponse{
		ID:                    order.ID,
		ClientID:              order.ClientID,
		OrderedAt:             order.OrderedAt.Format(time.RFC3339),
		Status:                string(order.Status),
		Subtotal:              order.Subtotal.StringFixed(2),
		TotalDiscount:         order.TotalDiscount.StringFixed(2),
		SubtotalAfterDiscount: order.SubtotalAfterDiscount.StringFixed(2),
		VATRate:               order.VATRate.StringFixed(2),
		VATAmount:             order.VATAmount.StringFixed(2),
		TotalWithTax:          order.TotalWithTax.StringFixed(2),
		RemainingBalance:      order.RemainingBalance.StringFixed(2),
		PromoCode:             order.PromoCode,
		Items:                 items,
	}
	if order.ConfirmedAt != nil {
		resp.ConfirmedAt = order.ConfirmedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateOrder handles POST /orders
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	items := make([]application.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = application.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.useCase.CreateOrder(c.Request.Context(), application.CreateOrderInput{
		ClientID:  req.ClientID,
		Items:     items,
		PromoCode: req.PromoCode,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c, "id", "invalid order id")
	if err != nil {
		c.Error(err)
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListOrders handles GET /orders with optional status and date range filters
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		orders []*domain.Order
		err    error
	)
	switch {
	case c.Query("status") != "":
		orders, err = h.useCase.ListOrdersByStatus(ctx, domain.OrderStatus(c.Query("status")))
	case c.Query("from") != "" || c.Query("to") != "":
		var from, to time.Time
		from, to, err = parseDateRange(c)
		if err == nil {
			orders, err = h.useCase.ListOrdersByDateRange(ctx, from, to)
		}
	default:
		orders, err = h.useCase.ListOrders(ctx)
	}
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, orders)
}

// ListPendingOrders handles GET /orders/pending
func (h *HTTPHandler) ListPendingOrders(c *gin.Context) {
	orders, err := h.useCase.ListPendingOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, orders)
}

// ConfirmOrder handles POST /orders/:id/confirm
func (h *HTTPHandler) ConfirmOrder(c *gin.Context) {
	id, err := parseID(c, "id", "invalid order id")
	if err != nil {
		c.Error(err)
		return
	}

	order, err := h.useCase.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	id, err := parseID(c, "id", "invalid order id")
	if err != nil {
		c.Error(err)
		return
	}

	order, err := h.useCase.CancelOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ApplyPromoCode handles POST /orders/:id/promo
func (h *HTTPHandler) ApplyPromoCode(c *gin.Context) {
	id, err := parseID(c, "id", "invalid order id")
	if err != nil {
		c.Error(err)
		return
	}

	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	order, err := h.useCase.ApplyPromoCode(c.Request.Context(), id, req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ClientOrderHistory handles GET /clients/:id/orders
func (h *HTTPHandler) ClientOrderHistory(c *gin.Context) {
	clientID, err := parseID(c, "id", "invalid client id")
	if err != nil {
		c.Error(err)
		return
	}

	orders, err := h.useCase.ClientOrderHistory(c.Request.Context(), clientID)
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, orders)
}

// ClientOrderStats handles GET /clients/:id/order-stats
func (h *HTTPHandler) ClientOrderStats(c *gin.Context) {
	clientID, err := parseID(c, "id", "invalid client id")
	if err != nil {
		c.Error(err)
		return
	}

	stats, err := h.useCase.GetClientOrderStats(c.Request.Context(), clientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"client_id":       stats.ClientID,
			"order_count":     stats.OrderCount,
			"confirmed_value": stats.ConfirmedValue.StringFixed(2),
		},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func (h *HTTPHandler) respondList(c *gin.Context, orders []*domain.Order) {
	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = toResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func parseID(c *gin.Context, param, message string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, errors.NewValidation(message, nil)
	}
	return uint(id), nil
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("invalid from date, expected YYYY-MM-DD", nil)
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidation("invalid to date, expected YYYY-MM-DD", nil)
	}
	// The range is inclusive of the whole end day.
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
