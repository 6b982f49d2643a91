package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/promos/application"
	"github.com/anouar36/B2B-TradeHub/internal/promos/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

// HTTPHandler handles HTTP requests for promo codes
type HTTPHandler struct {
	useCase *application.PromoUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.PromoUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the promo code routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	promos := r.Group("/promo-codes")
	{
		promos.POST("", h.CreatePromo)
		promos.GET("", h.ListPromos)
		promos.GET("/:code", h.GetPromo)
		promos.PATCH("/:code/deactivate", h.DeactivatePromo)
	}
}

// CreatePromoRequest is the request body for creating a promo code
type CreatePromoRequest struct {
	Code            string `json:"code" binding:"required"`
	DiscountPercent string `json:"discount_percent" binding:"required"`
	ValidFrom       string `json:"valid_from" binding:"required"`
	ValidUntil      string `json:"valid_until" binding:"required"`
	SingleUse       bool   `json:"single_use"`
}

// PromoResponse is the response body for promo code operations
type PromoResponse struct {
	ID              uint   `json:"id"`
	Code            string `json:"code"`
	DiscountPercent string `json:"discount_percent"`
	ValidFrom       string `json:"valid_from"`
	ValidUntil      string `json:"valid_until"`
	SingleUse       bool   `json:"single_use"`
	Used            bool   `json:"used"`
	Active          bool   `json:"active"`
}

func toResponse(promo *domain.PromoCode) PromoResponse {
	return PromoResponse{
		ID:              promo.ID,
		Code:            promo.Code,
		DiscountPercent: promo.DiscountPercent.StringFixed(2),
		ValidFrom:       promo.ValidFrom.Format("2006-01-02"),
		ValidUntil:      promo.ValidUntil.Format("2006-01-02"),
		SingleUse:       promo.SingleUse,
		Used:            promo.Used,
		Active:          promo.Active,
	}
}

// CreatePromo handles POST /promo-codes
func (h *HTTPHandler) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	percent, err := decimal.NewFromString(req.DiscountPercent)
	if err != nil {
		c.Error(errors.NewValidation("invalid discount percent", nil))
		return
	}
	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		c.Error(errors.NewValidation("invalid valid_from date, expected YYYY-MM-DD", nil))
		return
	}
	validUntil, err := time.Parse("2006-01-02", req.ValidUntil)
	if err != nil {
		c.Error(errors.NewValidation("invalid valid_until date, expected YYYY-MM-DD", nil))
		return
	}

	promo, err := h.useCase.CreatePromo(c.Request.Context(), application.CreatePromoInput{
		Code:            req.Code,
		DiscountPercent: percent,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		SingleUse:       req.SingleUse,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(promo),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListPromos handles GET /promo-codes
func (h *HTTPHandler) ListPromos(c *gin.Context) {
	promos, err := h.useCase.ListPromos(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]PromoResponse, len(promos))
	for i, promo := range promos {
		responses[i] = toResponse(promo)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetPromo handles GET /promo-codes/:code
func (h *HTTPHandler) GetPromo(c *gin.Context) {
	promo, err := h.useCase.GetPromo(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(promo),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeactivatePromo handles PATCH /promo-codes/:code/deactivate
func (h *HTTPHandler) DeactivatePromo(c *gin.Context) {
	if err := h.useCase.DeactivatePromo(c.Request.Context(), c.Param("code")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
