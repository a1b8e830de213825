package kernel

import (
	"fmt"
	"math"
)

// Money represents a monetary amount in cents. Storing cents as an integer keeps
// every total recomputation exact and replay-deterministic; fractional results of
// rate calculations are rounded half away from zero at the point they become money.
//
// Example:
//
//	price := kernel.NewMoneyFromCents(2000) // 20.00
//	tax := price.Percent(10)                // 2.00
//	fmt.Println(price.Add(tax))             // Output: 22.00
type Money int64

// NewMoneyFromCents creates a Money value from an amount expressed in cents.
func NewMoneyFromCents(cents int64) Money {
	return Money(cents)
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulQty returns the amount multiplied by a quantity.
func (m Money) MulQty(qty int) Money {
	return m * Money(qty)
}

// Percent returns the given percentage of the amount, rounded half away from zero.
//
// Example:
//
//	kernel.NewMoneyFromCents(2000).Percent(10) // 200 cents
func (m Money) Percent(rate float64) Money {
	return Money(math.Round(float64(m) * rate / 100))
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// String formats the amount as a decimal with two fraction digits.
//
// Example:
//
//	fmt.Println(kernel.NewMoneyFromCents(2420)) // Output: 24.20
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
