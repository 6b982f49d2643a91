package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/payments/application"
	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

const dateLayout = "2006-01-02"

// HTTPHandler handles HTTP requests for payments
type HTTPHandler struct {
	useCase *application.PaymentUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.PaymentUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the payment routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("", h.RecordPayment)
		payments.GET("", h.ListPayments)
		payments.GET("/overdue", h.ListOverduePayments)
		payments.GET("/number/:number", h.GetPaymentByNumber)
		payments.GET("/:id", h.GetPayment)
		payments.POST("/:id/process", h.ProcessPayment)
		payments.POST("/:id/reject", h.RejectPayment)
		payments.PATCH("/:id/due-date", h.UpdateDueDate)
	}
	orders := r.Group("/orders")
	{
		orders.GET("/:id/payments", h.ListOrderPayments)
	}
}

// RecordPaymentRequest is the request body for recording a payment
type RecordPaymentRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
	DueDate string `json:"due_date"`
}

// UpdateDueDateRequest is the request body for moving a due date
type UpdateDueDateRequest struct {
	DueDate string `json:"due_date" binding:"required"`
}

// PaymentResponse is the response body for payment operations
type PaymentResponse struct {
	ID        uint   `json:"id"`
	Number    string `json:"number"`
	OrderID   uint   `json:"order_id"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
	Status    string `json:"status"`
	PaidAt    string `json:"paid_at"`
	DueDate   string `json:"due_date,omitempty"`
	SettledAt string `json:"settled_at,omitempty"`
}

func toResponse(payment *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:      payment.ID,
		Number:  payment.Number,
		OrderID: payment.OrderID,
		Amount:  payment.Amount.StringFixed(2),
		Method:  string(payment.Method),
		Status:  string(payment.Status),
		PaidAt:  payment.PaidAt.Format(time.RFC3339),
	}
	if payment.DueDate != nil {
		resp.DueDate = payment.DueDate.Format(dateLayout)
	}
	if payment.SettledAt != nil {
		resp.SettledAt = payment.SettledAt.Format(time.RFC3339)
	}
	return resp
}

// RecordPayment handles POST /payments
func (h *HTTPHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.Error(errors.NewValidation("invalid amount", nil))
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			c.Error(errors.NewValidation("invalid due date, expected YYYY-MM-DD", nil))
			return
		}
		dueDate = &parsed
	}

	payment, err := h.useCase.RecordPayment(c.Request.Context(), application.RecordPaymentInput{
		OrderID: req.OrderID,
		Method:  domain.PaymentMethod(req.Method),
		Amount:  amount,
		DueDate: dueDate,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetPayment handles GET /payments/:id
func (h *HTTPHandler) GetPayment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	payment, err := h.useCase.GetPayment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetPaymentByNumber handles GET /payments/number/:number
func (h *HTTPHandler) GetPaymentByNumber(c *gin.Context) {
	payment, err := h.useCase.GetPaymentByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListPayments handles GET /payments, filtered by status or date range
func (h *HTTPHandler) ListPayments(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		payments, err := h.useCase.ListPaymentsByStatus(c.Request.Context(), domain.PaymentStatus(status))
		if err != nil {
			c.Error(err)
			return
		}
		h.respondList(c, payments)
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.Error(errors.NewValidation("invalid from date, expected YYYY-MM-DD", nil))
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.Error(errors.NewValidation("invalid to date, expected YYYY-MM-DD", nil))
		return
	}

	payments, err := h.useCase.ListPaymentsByDateRange(c.Request.Context(),
		from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, payments)
}

// ListOverduePayments handles GET /payments/overdue
func (h *HTTPHandler) ListOverduePayments(c *gin.Context) {
	payments, err := h.useCase.ListOverduePayments(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, payments)
}

// ListOrderPayments handles GET /orders/:id/payments
func (h *HTTPHandler) ListOrderPayments(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	payments, err := h.useCase.ListPaymentsByOrder(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	h.respondList(c, payments)
}

// ProcessPayment handles POST /payments/:id/process
func (h *HTTPHandler) ProcessPayment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	payment, err := h.useCase.ProcessPayment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// RejectPayment handles POST /payments/:id/reject
func (h *HTTPHandler) RejectPayment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	payment, err := h.useCase.RejectPayment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateDueDate handles PATCH /payments/:id/due-date
func (h *HTTPHandler) UpdateDueDate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.Error(errors.NewValidation("invalid due date, expected YYYY-MM-DD", nil))
		return
	}

	payment, err := h.useCase.UpdateDueDate(c.Request.Context(), id, dueDate)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(payment),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func (h *HTTPHandler) respondList(c *gin.Context, payments []*domain.Payment) {
	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = toResponse(payment)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidation("invalid id", nil)
	}
	return uint(id), nil
}
