// Package pricing computes order totals in exact decimal arithmetic so
// money values never pick up floating-point rounding drift.
package pricing

import "github.com/shopspring/decimal"

// TotalCost returns amount * quantity.
func TotalCost(amount decimal.Decimal, quantity int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(quantity)))
}
