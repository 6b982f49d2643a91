package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromoCode represents a discount code with a validity window
type PromoCode struct {
	ID              uint
	Code            string
	DiscountPercent decimal.Decimal
	ValidFrom       time.Time
	ValidUntil      time.Time
	SingleUse       bool
	Used            bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate validates the promo code entity
func (p *PromoCode) Validate() error {
	if p.Code == "" {
		return ErrCodeRequired
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercentage
	}
	if p.ValidUntil.Before(p.ValidFrom) {
		return ErrInvalidWindow
	}
	return nil
}

// NewPromoCode creates a new active promo code with validation
func NewPromoCode(code string, discountPercent decimal.Decimal, validFrom, validUntil time.Time, singleUse bool) (*PromoCode, error) {
	promo := &PromoCode{
		Code:            code,
		DiscountPercent: discountPercent,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		SingleUse:       singleUse,
		Active:          true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := promo.Validate(); err != nil {
		return nil, err
	}

	return promo, nil
}

// ValidAt reports whether the code can discount an order as of the given
// date: active, inside the [from, until] window inclusive, and not already
// consumed if single-use.
func (p *PromoCode) ValidAt(asOf time.Time) bool {
	if !p.Active {
		return false
	}
	if asOf.Before(p.ValidFrom) || asOf.After(p.ValidUntil) {
		return false
	}
	if p.SingleUse && p.Used {
		return false
	}
	return true
}

// MarkUsed consumes a single-use code. Re-marking an already used code has
// no additional effect; multi-use codes are never flipped.
func (p *PromoCode) MarkUsed() {
	if p.SingleUse && !p.Used {
		p.Used = true
		p.UpdatedAt = time.Now()
	}
}

// Deactivate turns the code off regardless of its window
func (p *PromoCode) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}
