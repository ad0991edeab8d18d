// Package money keeps every amount as int64 paise. Percentages and ratios go
// through decimal so rounding happens exactly once per figure.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns amount*pct/100 rounded half away from zero.
func Percent(amount int64, pct decimal.Decimal) int64 {
	if amount == 0 || pct.IsZero() {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}

// Prorate returns amount*num/den rounded half away from zero. A non-positive
// denominator yields zero.
func Prorate(amount int64, num, den int) int64 {
	if den <= 0 || num <= 0 || amount == 0 {
		return 0
	}
	if num == den {
		return amount
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(num))).
		Div(decimal.NewFromInt(int64(den))).
		Round(0).
		IntPart()
}

// FromRupees converts a rupee amount (up to 2 decimals) into paise.
func FromRupees(rupees decimal.Decimal) int64 {
	return rupees.Mul(hundred).Round(0).IntPart()
}

func ToRupees(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}

// Format renders paise as a fixed two-decimal rupee string, e.g. "1234.50".
func Format(paise int64) string {
	return ToRupees(paise).StringFixed(2)
}

func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
