package payroll_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/audit"
	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayrollService_ConfirmSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("settles ready items and their repayments together", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusApproved)
		ready := h.item(p, "Asha", 855000, true, "r1", "r2")
		held := h.item(p, "Bala", 500000, false, "r3")
		h.expectTx(true)

		resp, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", " UTR-42 ")

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)
		assert.Equal(t, 1, resp.ProcessedItems)
		assert.Equal(t, 2, resp.SettledRepayments)
		assert.Equal(t, "UTR-42", resp.BankTransferReference)
		assert.True(t, decimal.NewFromInt(8550).Equal(resp.TotalNet))

		assert.Equal(t, payroll.PaymentProcessed, h.repo.item(ready.ID.String()).PaymentStatus)
		assert.Equal(t, payroll.PaymentPending, h.repo.item(held.ID.String()).PaymentStatus)
		assert.Equal(t, []string{"r1", "r2"}, h.loans.repaid)

		stored := h.repo.period(p.ID.String())
		assert.Equal(t, payroll.StatusPaid, stored.Status)
		assert.Equal(t, "accountant", stored.SettlementConfirmedBy)
		assert.Equal(t, []string{audit.ActionSettlementConfirmed}, auditActions(h.audit))

		assert.Len(t, h.outbox.events, 1)
		event := h.outbox.events[0]
		assert.Equal(t, events.SettlementConfirmedTopic, event.Topic)
		var payload events.SettlementConfirmedEvent
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, []string{ready.EmployeeID.String()}, payload.EmployeeIDs)
		assert.Equal(t, int64(855000), payload.TotalNet)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("repeat confirmation keeps the first paid date", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusApproved)
		h.item(p, "Asha", 855000, true)
		h.expectTx(true)
		h.expectTx(true)

		first, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", "UTR-1")
		assert.NoError(t, err)
		second, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", "UTR-1")
		assert.NoError(t, err)

		assert.Equal(t, 0, second.ProcessedItems)
		assert.Equal(t, *first.PaidAt, *second.PaidAt)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("loan ledger failure rolls back", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusApproved)
		h.item(p, "Asha", 855000, true, "r1")
		h.loans.markErr = errors.New("ledger down")
		h.expectTx(false)

		_, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", "")

		assert.Error(t, err)
		assert.Empty(t, h.audit.entries)
		assert.Empty(t, h.outbox.events)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("locked period", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusPaid)
		h.repo.periods[p.ID.String()].IsLocked = true
		h.expectTx(false)

		_, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", "")

		assert.ErrorIs(t, err, payrollerrors.ErrPeriodLocked)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})

	t.Run("period not yet approved", func(t *testing.T) {
		h := newHarness(t)
		p := h.period(payroll.StatusProcessing)
		h.expectTx(false)

		_, err := h.svc.ConfirmSettlement(ctx, h.school(), p.ID.String(), "accountant", "")

		assert.ErrorIs(t, err, payrollerrors.ErrSettlementNotAllowed)
		assert.Equal(t, payroll.StatusProcessing, h.repo.period(p.ID.String()).Status)
		assert.NoError(t, h.mock.ExpectationsWereMet())
	})
}
