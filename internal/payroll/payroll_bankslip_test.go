package payroll_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func slipItem(name string, net int64, mutate ...func(i *payroll.PayrollItem)) payroll.PayrollItem {
	item := payroll.PayrollItem{
		ID:                uuid.New(),
		EmployeeID:        uuid.New(),
		EmployeeName:      name,
		BankName:          "State Bank",
		BankAccountNumber: "000111222333",
		BankIFSC:          "SBIN0000123",
		NetSalary:         net,
		PaymentStatus:     payroll.PaymentPending,
		Readiness:         payroll.ReadinessReady,
	}
	for _, m := range mutate {
		m(&item)
	}
	return item
}

func zeroNet(i *payroll.PayrollItem) {
	i.Readiness = payroll.ReadinessOnHold
	i.HoldReason = payroll.HoldZeroNet
}

func noBank(i *payroll.PayrollItem) {
	i.BankIFSC = ""
	i.Readiness = payroll.ReadinessOnHold
	i.HoldReason = payroll.HoldMissingBankDetails
}

func onHold(i *payroll.PayrollItem) {
	i.Readiness = payroll.ReadinessOnHold
	i.HoldReason = "MANUAL"
}

func TestBuildBankSlip(t *testing.T) {
	t.Run("excludes zero salary and missing bank details", func(t *testing.T) {
		items := []payroll.PayrollItem{
			slipItem("Asha", 0, zeroNet),
			slipItem("Bala", 500000, noBank),
			slipItem("Chitra", 855000),
		}

		slip, err := payroll.BuildBankSlip(items, 20000000)

		assert.NoError(t, err)
		assert.Len(t, slip.Rows, 1)
		assert.Equal(t, "Chitra", slip.Rows[0].EmployeeName)
		assert.Equal(t, "8550.00", slip.Rows[0].Amount)
		assert.Equal(t, payroll.ModeNEFT, slip.Rows[0].Mode)
		assert.Equal(t, 1, slip.Rows[0].SerialNo)
		assert.Equal(t, 1, slip.SkippedZeroSalary)
		assert.Equal(t, 1, slip.SkippedMissingBank)
		assert.Equal(t, 0, slip.SkippedOnHold)
		assert.Equal(t, int64(855000), slip.TotalAmount)
		assert.Equal(t, []string{items[2].ID.String()}, slip.ItemIDs())
	})

	t.Run("orders rows by name and picks rtgs at the threshold", func(t *testing.T) {
		items := []payroll.PayrollItem{
			slipItem("Zara", 100000),
			slipItem("Meera", 20000000),
			slipItem("Anil", 19999999),
			slipItem("Paid Already", 100000, func(i *payroll.PayrollItem) { i.PaymentStatus = payroll.PaymentProcessed }),
		}

		slip, err := payroll.BuildBankSlip(items, 20000000)

		assert.NoError(t, err)
		assert.Len(t, slip.Rows, 3)
		assert.Equal(t, []string{"Anil", "Meera", "Zara"},
			[]string{slip.Rows[0].EmployeeName, slip.Rows[1].EmployeeName, slip.Rows[2].EmployeeName})
		assert.Equal(t, payroll.ModeNEFT, slip.Rows[0].Mode)
		assert.Equal(t, payroll.ModeRTGS, slip.Rows[1].Mode)
		assert.Equal(t, 2, slip.NEFTCount)
		assert.Equal(t, 1, slip.RTGSCount)
		assert.Equal(t, 3, slip.Rows[2].SerialNo)
	})

	cases := []struct {
		name  string
		items []payroll.PayrollItem
		want  error
	}{
		{
			name:  "all zero salary",
			items: []payroll.PayrollItem{slipItem("A", 0, zeroNet), slipItem("B", 0, zeroNet)},
			want:  payrollerrors.ErrBankSlipAllZeroSalary,
		},
		{
			name:  "all missing bank details",
			items: []payroll.PayrollItem{slipItem("A", 100, noBank), slipItem("B", 100, noBank)},
			want:  payrollerrors.ErrBankSlipAllMissingBank,
		},
		{
			name:  "zero salary and missing bank details mixed",
			items: []payroll.PayrollItem{slipItem("A", 0, zeroNet), slipItem("B", 100, noBank)},
			want:  payrollerrors.ErrBankSlipZeroOrMissingBank,
		},
		{
			name:  "everyone on hold",
			items: []payroll.PayrollItem{slipItem("A", 100, onHold), slipItem("B", 100, noBank)},
			want:  payrollerrors.ErrBankSlipNoReadyEmployees,
		},
		{
			name:  "no candidates",
			items: nil,
			want:  payrollerrors.ErrBankSlipNoReadyEmployees,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := payroll.BuildBankSlip(tc.items, 20000000)

			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPayrollService_GenerateBankSlip(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*harness, payroll.PayrollPeriod, payroll.PayrollItem) {
		h := newHarness(t)
		p := h.period(payroll.StatusApproved)
		zero := h.item(p, "Asha", 0, true)
		h.repo.items[zero.ID.String()].Readiness = payroll.ReadinessOnHold
		missing := h.item(p, "Bala", 500000, true)
		h.repo.items[missing.ID.String()].BankAccountNumber = ""
		ready := h.item(p, "Chitra", 855000, true)
		return h, p, ready
	}

	t.Run("csv marks included items processing", func(t *testing.T) {
		h, p, ready := setup(t)
		h.expectTx(true)

		file, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "csv")

		assert.NoError(t, err)
		assert.Equal(t, "bank-slip-2025-03.csv", file.Filename)
		assert.Equal(t, "text/csv", file.ContentType)
		lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, "S.No,Employee ID,Employee Name,Bank Name,Account Number,IFSC,Amount,Mode", lines[0])
		assert.Contains(t, lines[1], "Chitra")
		assert.Contains(t, lines[1], "8550.00,NEFT")
		assert.Equal(t, 1, file.Summary.SkippedZeroSalary)
		assert.Equal(t, 1, file.Summary.SkippedMissingBank)

		assert.Equal(t, payroll.PaymentProcessing, h.repo.item(ready.ID.String()).PaymentStatus)
		assert.NotNil(t, h.repo.period(p.ID.String()).BankSlipGeneratedAt)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("excel workbook", func(t *testing.T) {
		h, p, _ := setup(t)
		h.expectTx(true)

		file, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "excel")

		assert.NoError(t, err)
		assert.Equal(t, "bank-slip-2025-03.xls", file.Filename)
		body := string(file.Content)
		assert.Contains(t, body, `<?mso-application progid="Excel.Sheet"?>`)
		assert.Contains(t, body, "<Workbook")
		assert.Contains(t, body, "Chitra")
		assert.Contains(t, body, "8550.00")
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("json summary", func(t *testing.T) {
		h, p, _ := setup(t)
		h.expectTx(true)

		file, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "json")
		assert.NoError(t, err)

		var got struct {
			Rows []struct {
				EmployeeName string `json:"employee_name"`
				Mode         string `json:"mode"`
			} `json:"rows"`
			TotalAmount        decimal.Decimal `json:"total_amount"`
			NEFTCount          int             `json:"neft_count"`
			SkippedZeroSalary  int             `json:"skipped_zero_salary"`
			SkippedMissingBank int             `json:"skipped_missing_bank"`
			SkippedOnHold      int             `json:"skipped_on_hold"`
		}
		assert.NoError(t, json.Unmarshal(file.Content, &got))
		assert.Len(t, got.Rows, 1)
		assert.True(t, decimal.NewFromInt(8550).Equal(got.TotalAmount))
		assert.Equal(t, 1, got.NEFTCount)
		assert.Equal(t, 1, got.SkippedZeroSalary)
		assert.Equal(t, 1, got.SkippedMissingBank)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown format without a transaction", func(t *testing.T) {
		h, p, _ := setup(t)

		_, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "pdf")

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidBankSlipFormat)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("requires an approved period", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusProcessing)
		h.expectTx(false)

		_, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "csv")

		assert.ErrorIs(t, err, payrollerrors.ErrBankSlipNotAllowed)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("locked period", func(t *testing.T) {
		h, p, _ := setup(t)
		h.repo.periods[p.ID.String()].Status = payroll.StatusPaid
		h.repo.periods[p.ID.String()].IsLocked = true
		h.expectTx(false)

		_, err := h.svc.GenerateBankSlip(ctx, h.school(), p.ID.String(), "csv")

		assert.ErrorIs(t, err, payrollerrors.ErrPeriodLocked)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})
}
