package domain

import "github.com/shopspring/decimal"

// Tier is the loyalty classification of a client
type Tier string

const (
	TierBasic    Tier = "BASIC"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// tierRank is the explicit total order over tiers. Upgrade decisions compare
// ranks, never declaration order.
var tierRank = map[Tier]int{
	TierBasic:    0,
	TierSilver:   1,
	TierGold:     2,
	TierPlatinum: 3,
}

// Rank returns the position of the tier in the loyalty ladder. Unknown
// values rank as BASIC.
func (t Tier) Rank() int {
	return tierRank[t]
}

// Outranks reports whether t is strictly above other in the ladder
func (t Tier) Outranks(other Tier) bool {
	return t.Rank() > other.Rank()
}

// Loyalty thresholds: a client reaches a tier by order count or by
// cumulative spend, whichever comes first.
const (
	silverMinOrders   = 3
	goldMinOrders     = 10
	platinumMinOrders = 20
)

var (
	silverMinSpent   = decimal.NewFromInt(1000)
	goldMinSpent     = decimal.NewFromInt(5000)
	platinumMinSpent = decimal.NewFromInt(15000)
)

// TierFor derives the candidate tier from cumulative counters
func TierFor(totalOrders int, totalSpent decimal.Decimal) Tier {
	switch {
	case totalOrders >= platinumMinOrders || totalSpent.GreaterThanOrEqual(platinumMinSpent):
		return TierPlatinum
	case totalOrders >= goldMinOrders || totalSpent.GreaterThanOrEqual(goldMinSpent):
		return TierGold
	case totalOrders >= silverMinOrders || totalSpent.GreaterThanOrEqual(silverMinSpent):
		return TierSilver
	default:
		return TierBasic
	}
}
