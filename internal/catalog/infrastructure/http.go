package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/anouar36/B2B-TradeHub/internal/catalog/application"
	"github.com/anouar36/B2B-TradeHub/internal/catalog/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the product catalog
type HTTPHandler struct {
	useCase *application.CatalogUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CatalogUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the product routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.RetireProduct)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
	Stock     int    `json:"stock" binding:"min=0"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name      string  `json:"name"`
	UnitPrice *string `json:"unit_price"`
	Stock     *int    `json:"stock"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Stock     int    `json:"stock"`
	Retired   bool   `json:"retired"`
	CreatedAt string `json:"created_at"`
}

func toResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice.StringFixed(2),
		Stock:     product.Stock,
		Retired:   product.Retired,
		CreatedAt: product.CreatedAt.Format(time.RFC3339),
	}
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		c.Error(errors.NewValidation("invalid unit price", nil))
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), application.CreateProductInput{
		Name:      req.Name,
		UnitPrice: price,
		Stock:     req.Stock,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListProducts handles GET /products; ?name= filters by name fragment
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	var (
		products []*domain.Product
		err      error
	)

	if fragment := c.Query("name"); fragment != "" {
		products, err = h.useCase.SearchProducts(c.Request.Context(), fragment)
	} else {
		products, err = h.useCase.ListAvailableProducts(c.Request.Context())
	}
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = toResponse(product)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateProduct handles PUT /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	input := application.UpdateProductInput{
		ID:    id,
		Name:  req.Name,
		Stock: req.Stock,
	}
	if req.UnitPrice != nil {
		price, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			c.Error(errors.NewValidation("invalid unit price", nil))
			return
		}
		input.UnitPrice = &price
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// RetireProduct handles DELETE /products/:id
func (h *HTTPHandler) RetireProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.useCase.RetireProduct(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidation("invalid product id", nil)
	}
	return uint(id), nil
}
