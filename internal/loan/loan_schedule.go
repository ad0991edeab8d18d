package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

var monthsPerYearPct = decimal.NewFromInt(1200)

type Installment struct {
	No     int
	Month  int
	Year   int
	Amount int64
}

type Schedule struct {
	Total        int64
	EMI          int64
	Installments []Installment
}

// BuildSchedule spreads a flat-interest total over tenure consecutive months
// starting at start. The last installment absorbs the rounding remainder so
// the installments always sum to Total.
func BuildSchedule(principal int64, rate decimal.Decimal, tenure int, start time.Time) Schedule {
	if tenure <= 0 || principal <= 0 {
		return Schedule{}
	}

	factor := decimal.NewFromInt(1).Add(rate.Mul(decimal.NewFromInt(int64(tenure))).Div(monthsPerYearPct))
	total := decimal.NewFromInt(principal).Mul(factor).Round(0).IntPart()

	n := int64(tenure)
	emi := decimal.NewFromInt(total).Div(decimal.NewFromInt(n)).Round(0).IntPart()
	if total-emi*(n-1) <= 0 {
		emi = total / n
	}

	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Installment, 0, tenure)
	for i := 0; i < tenure; i++ {
		due := first.AddDate(0, i, 0)
		amount := emi
		if i == tenure-1 {
			amount = total - emi*(n-1)
		}
		rows = append(rows, Installment{
			No:     i + 1,
			Month:  int(due.Month()),
			Year:   due.Year(),
			Amount: amount,
		})
	}

	return Schedule{Total: total, EMI: emi, Installments: rows}
}
