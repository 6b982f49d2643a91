package domain

import (
	"github.com/shopspring/decimal"

	clients "github.com/anouar36/B2B-TradeHub/internal/clients/domain"
	promos "github.com/anouar36/B2B-TradeHub/internal/promos/domain"
)

// DefaultVATRate is the VAT rate applied when none is configured
var DefaultVATRate = decimal.RequireFromString("20.00")

var hundred = decimal.NewFromInt(100)

// Quote is the result of pricing an order: subtotal, stacked discounts,
// VAT and totals. It carries no identity and no side effects; the caller
// persists it into the order.
type Quote struct {
	Subtotal              decimal.Decimal
	LoyaltyDiscount       decimal.Decimal
	PromoDiscount         decimal.Decimal
	TotalDiscount         decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	VATRate               decimal.Decimal
	VATAmount             decimal.Decimal
	TotalWithTax          decimal.Decimal
}

// loyaltyRule gates a tier's discount on a minimum subtotal
type loyaltyRule struct {
	minSubtotal decimal.Decimal
	percent     decimal.Decimal
}

// Only the client's current tier's rule applies; rules do not stack.
var loyaltyRules = map[clients.Tier]loyaltyRule{
	clients.TierSilver:   {minSubtotal: decimal.NewFromInt(500), percent: decimal.NewFromInt(5)},
	clients.TierGold:     {minSubtotal: decimal.NewFromInt(800), percent: decimal.NewFromInt(10)},
	clients.TierPlatinum: {minSubtotal: decimal.NewFromInt(1200), percent: decimal.NewFromInt(15)},
}

// roundMoney applies banker's rounding at 2 decimal places. Every derived
// monetary value is rounded before it is summed, so order totals are exact
// sums of their parts.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// PriceOrder computes the full financial breakdown of an order: sum of line
// totals, loyalty discount by the client's tier, promo discount if a
// validated code is supplied, then VAT on the discounted subtotal. The two
// discounts stack additively, never compounded. A nil promo contributes
// zero; callers pass nil for unknown, expired or consumed codes.
func PriceOrder(items []OrderItem, tier clients.Tier, promo *promos.PromoCode, vatRate decimal.Decimal) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	loyaltyDiscount := decimal.Zero
	if rule, ok := loyaltyRules[tier]; ok && subtotal.GreaterThanOrEqual(rule.minSubtotal) {
		loyaltyDiscount = roundMoney(subtotal.Mul(rule.percent).Div(hundred))
	}

	promoDiscount := decimal.Zero
	if promo != nil {
		promoDiscount = roundMoney(subtotal.Mul(promo.DiscountPercent).Div(hundred))
	}

	totalDiscount := loyaltyDiscount.Add(promoDiscount)
	afterDiscount := subtotal.Sub(totalDiscount)
	if afterDiscount.IsNegative() {
		afterDiscount = decimal.Zero
	}

	vatAmount := roundMoney(afterDiscount.Mul(vatRate).Div(hundred))

	return Quote{
		Subtotal:              subtotal,
		LoyaltyDiscount:       loyaltyDiscount,
		PromoDiscount:         promoDiscount,
		TotalDiscount:         totalDiscount,
		SubtotalAfterDiscount: afterDiscount,
		VATRate:               vatRate,
		VATAmount:             vatAmount,
		TotalWithTax:          afterDiscount.Add(vatAmount),
	}
}
