package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestPromo(t *testing.T, singleUse bool) *PromoCode {
	t.Helper()
	promo, err := NewPromoCode(
		"SUMMER10",
		decimal.NewFromInt(10),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
		singleUse,
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return promo
}

func TestPromoCode_ValidAt_Window(t *testing.T) {
	promo := newTestPromo(t, false)

	tests := []struct {
		name string
		asOf time.Time
		want bool
	}{
		{"before window", time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC), false},
		{"first day", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"inside window", time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), true},
		{"last day inclusive", time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), true},
		{"after window", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promo.ValidAt(tt.asOf); got != tt.want {
				t.Errorf("ValidAt(%v) = %v, want %v", tt.asOf, got, tt.want)
			}
		})
	}
}

func TestPromoCode_ValidAt_Inactive(t *testing.T) {
	promo := newTestPromo(t, false)
	promo.Deactivate()

	if promo.ValidAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("deactivated code must not validate")
	}
}

func TestPromoCode_SingleUse(t *testing.T) {
	promo := newTestPromo(t, true)
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	if !promo.ValidAt(asOf) {
		t.Fatal("fresh single-use code should validate")
	}

	promo.MarkUsed()
	if promo.ValidAt(asOf) {
		t.Error("consumed single-use code must not validate again")
	}

	// Re-marking is a no-op.
	promo.MarkUsed()
	if !promo.Used {
		t.Error("used flag lost on re-mark")
	}
}

func TestPromoCode_MultiUseNeverConsumed(t *testing.T) {
	promo := newTestPromo(t, false)
	asOf := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	promo.MarkUsed()
	if promo.Used {
		t.Error("multi-use code must not be flagged used")
	}
	if !promo.ValidAt(asOf) {
		t.Error("multi-use code must stay valid after use")
	}
}

func TestNewPromoCode_Validation(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	if _, err := NewPromoCode("", decimal.NewFromInt(10), from, until, false); err == nil {
		t.Error("expected error for empty code")
	}
	if _, err := NewPromoCode("X", decimal.NewFromInt(101), from, until, false); err == nil {
		t.Error("expected error for percentage above 100")
	}
	if _, err := NewPromoCode("X", decimal.NewFromInt(10), until, from, false); err == nil {
		t.Error("expected error for inverted window")
	}
}
