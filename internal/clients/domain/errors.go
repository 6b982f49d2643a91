package domain

import "github.com/anouar36/B2B-TradeHub/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired  = errors.NewValidation("name is required", nil)
	ErrEmailRequired = errors.NewValidation("email is required", nil)
)

// NewClientNotFound creates a not found error with the client ID
func NewClientNotFound(id uint) error {
	return errors.NewNotFound("client", id)
}
