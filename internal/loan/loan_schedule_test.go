package loan_test

import (
	"testing"
	"time"

	"go-payroll/internal/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sum(rows []loan.Installment) int64 {
	var total int64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}

func TestBuildSchedule(t *testing.T) {
	start := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

	t.Run("interest free loan splits evenly", func(t *testing.T) {
		s := loan.BuildSchedule(1200000, decimal.Zero, 12, start)

		assert.Equal(t, int64(1200000), s.Total)
		assert.Equal(t, int64(100000), s.EMI)
		assert.Len(t, s.Installments, 12)
		for _, row := range s.Installments {
			assert.Equal(t, int64(100000), row.Amount)
		}
		assert.Equal(t, 4, s.Installments[0].Month)
		assert.Equal(t, 2025, s.Installments[0].Year)
		assert.Equal(t, 3, s.Installments[11].Month)
		assert.Equal(t, 2026, s.Installments[11].Year)
	})

	t.Run("last installment absorbs remainder", func(t *testing.T) {
		s := loan.BuildSchedule(1000000, decimal.Zero, 3, start)

		assert.Equal(t, int64(333333), s.EMI)
		assert.Equal(t, int64(333334), s.Installments[2].Amount)
		assert.Equal(t, s.Total, sum(s.Installments))
	})

	t.Run("flat interest", func(t *testing.T) {
		s := loan.BuildSchedule(5000000, decimal.NewFromInt(12), 10, start)

		// 50000 * (1 + 12*10/1200) = 55000
		assert.Equal(t, int64(5500000), s.Total)
		assert.Equal(t, int64(550000), s.EMI)
		assert.Equal(t, s.Total, sum(s.Installments))
	})

	t.Run("rounded emi never drives last row negative", func(t *testing.T) {
		// round(10/6) = 2 would leave 0 for the last row
		s := loan.BuildSchedule(10, decimal.Zero, 6, start)

		assert.Equal(t, int64(10), s.Total)
		assert.Equal(t, int64(1), s.EMI)
		assert.Equal(t, int64(5), s.Installments[5].Amount)
		assert.Equal(t, s.Total, sum(s.Installments))
	})

	t.Run("sum always matches total", func(t *testing.T) {
		rates := []decimal.Decimal{decimal.Zero, decimal.RequireFromString("7.5"), decimal.RequireFromString("13.25")}
		for _, rate := range rates {
			for tenure := 1; tenure <= 36; tenure += 7 {
				s := loan.BuildSchedule(1234567, rate, tenure, start)
				assert.Equal(t, s.Total, sum(s.Installments))
				assert.Len(t, s.Installments, tenure)
				for _, row := range s.Installments {
					assert.Greater(t, row.Amount, int64(0))
				}
			}
		}
	})

	t.Run("invalid input yields empty schedule", func(t *testing.T) {
		assert.Empty(t, loan.BuildSchedule(0, decimal.Zero, 12, start).Installments)
		assert.Empty(t, loan.BuildSchedule(1000, decimal.Zero, 0, start).Installments)
	})
}
