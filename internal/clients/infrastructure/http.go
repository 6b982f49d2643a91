package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anouar36/B2B-TradeHub/internal/clients/application"
	"github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/errors"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
)

// HTTPHandler handles HTTP requests for clients
type HTTPHandler struct {
	useCase *application.ClientUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ClientUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the client routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.POST("", h.CreateClient)
		clients.GET("", h.ListClients)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
	}
}

// CreateClientRequest is the request body for creating a client
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateClientRequest is the request body for updating a client
type UpdateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClientResponse is the response body for client operations
type ClientResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Tier         string `json:"tier"`
	TotalOrders  int    `json:"total_orders"`
	TotalSpent   string `json:"total_spent"`
	FirstOrderAt string `json:"first_order_at,omitempty"`
	LastOrderAt  string `json:"last_order_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toResponse(client *domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:          client.ID,
		Name:        client.Name,
		Email:       client.Email,
		Tier:        string(client.Tier),
		TotalOrders: client.TotalOrders,
		TotalSpent:  client.TotalSpent.StringFixed(2),
		CreatedAt:   client.CreatedAt.Format(time.RFC3339),
	}
	if client.FirstOrderAt != nil {
		resp.FirstOrderAt = client.FirstOrderAt.Format(time.RFC3339)
	}
	if client.LastOrderAt != nil {
		resp.LastOrderAt = client.LastOrderAt.Format(time.RFC3339)
	}
	return resp
}

// CreateClient handles POST /clients
func (h *HTTPHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	client, err := h.useCase.CreateClient(c.Request.Context(), application.CreateClientInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toResponse(client),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetClient handles GET /clients/:id
func (h *HTTPHandler) GetClient(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	client, err := h.useCase.GetClient(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(client),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListClients handles GET /clients
func (h *HTTPHandler) ListClients(c *gin.Context) {
	clients, err := h.useCase.ListClients(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = toResponse(client)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateClient handles PUT /clients/:id
func (h *HTTPHandler) UpdateClient(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	client, err := h.useCase.UpdateClient(c.Request.Context(), application.UpdateClientInput{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toResponse(client),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidation("invalid client id", nil)
	}
	return uint(id), nil
}
