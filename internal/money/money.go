// Package money fixes the rounding policy for every monetary aggregate in
// the pipeline: two decimal places, round half away from zero (10.005
// becomes 10.01, -10.005 becomes -10.01). Sums are carried as exact
// decimals and rounded immediately after summation; a rounded value is
// what crosses stage boundaries, gets compared, and gets stored.
package money

import "github.com/shopspring/decimal"

// Epsilon is the comparison tolerance for reconciled amounts: one cent.
var Epsilon = decimal.NewFromFloat(0.01)

// Round applies the policy: 2 decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Sum adds the values exactly and rounds the result once.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round(total)
}

// Equal reports whether two already-rounded amounts agree to better than
// Epsilon. Operands are multiples of 0.01 after rounding, so a full cent
// of difference is a real discrepancy, not tolerance noise.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(Epsilon) < 0
}

// RatePercent returns a/b*100 rounded, and 0 when b is zero. Division by
// zero never propagates out of monetary code.
func RatePercent(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return Round(a.Div(b).Mul(decimal.NewFromInt(100)))
}
