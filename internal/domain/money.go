package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary value to two decimal places, half away from
// zero. Every amount the engine stores or returns passes through it so
// repeated recomputation of the same history cannot drift.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
