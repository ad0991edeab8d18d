package salarystructure_test

import (
	"testing"

	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/statutory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	stat := statutory.Default()

	t.Run("above ESI limit, PF capped at ceiling", func(t *testing.T) {
		s := salarystructure.SalaryStructure{
			BasicSalary:      3000000,
			HRAPercent:       decimal.NewFromInt(40),
			DAPercent:        decimal.NewFromInt(10),
			TAAmount:         160000,
			MedicalAllowance: 125000,
			SpecialAllowance: 200000,
			OtherAllowances:  50000,
		}

		b := salarystructure.Derive(s, stat)

		assert.Equal(t, int64(1200000), b.HRA)
		assert.Equal(t, int64(300000), b.DA)
		assert.Equal(t, int64(5035000), b.GrossSalary)
		assert.Equal(t, int64(180000), b.EmployerPF)
		assert.Zero(t, b.EmployerESI)
		assert.Equal(t, int64(5215000), b.CTC)
	})

	t.Run("within ESI limit", func(t *testing.T) {
		s := salarystructure.SalaryStructure{BasicSalary: 1200000}

		b := salarystructure.Derive(s, stat)

		assert.Equal(t, int64(1200000), b.GrossSalary)
		assert.Equal(t, int64(144000), b.EmployerPF)
		assert.Equal(t, int64(39000), b.EmployerESI)
		assert.Equal(t, int64(1383000), b.CTC)
	})

	t.Run("fractional percent rounds half away from zero", func(t *testing.T) {
		s := salarystructure.SalaryStructure{
			BasicSalary: 1000001,
			HRAPercent:  decimal.RequireFromString("12.5"),
		}

		b := salarystructure.Derive(s, stat)

		// 1000001 * 12.5% = 125000.125
		assert.Equal(t, int64(125000), b.HRA)
		assert.Equal(t, b.Basic+b.HRA, b.GrossSalary)
	})
}
