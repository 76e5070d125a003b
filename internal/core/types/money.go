// Package types provides common value types shared across the domain.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// decimal.Decimal avoids the rounding errors of float64 arithmetic.
type Money = decimal.Decimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns the zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// MoneyFromUnits multiplies a per-unit amount by an integer quantity.
// Used for movement total cost and discrepancy exposure.
func MoneyFromUnits(perUnit Money, units int64) Money {
	return perUnit.Mul(decimal.NewFromInt(units))
}
