// Package money holds the single currency rounding policy so every
// view computes cents the same way.
package money

import "github.com/shopspring/decimal"

// Cents rounds a currency amount to 2 decimal places, half away from
// zero. All monetary rounding in the service goes through here.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Cost returns the rounded total for a share count at a unit price.
func Cost(price decimal.Decimal, shares int64) decimal.Decimal {
	return Cents(price.Mul(decimal.NewFromInt(shares)))
}
