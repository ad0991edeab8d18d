package payroll

import (
	"context"
	"strings"

	"go-payroll/internal/audit"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/money"

	"go.uber.org/zap"
)

// ConfirmSettlement records that the bank transfer went through. Period,
// items, loan repayments, audit row and outbox event commit together.
func (s *service) ConfirmSettlement(ctx context.Context, schoolID, periodID, actorID, reference string) (SettlementResponse, error) {
	reference = strings.TrimSpace(reference)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SettlementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindPeriodForUpdate(ctx, schoolID, periodID)
	if err != nil {
		return SettlementResponse{}, mapPeriodError(err)
	}
	if period.IsLocked {
		return SettlementResponse{}, payrollerrors.ErrPeriodLocked
	}
	if !isIssued(period.Status) {
		return SettlementResponse{}, payrollerrors.ErrSettlementNotAllowed
	}

	now := s.now()
	rows, err := qtx.SettlePeriod(ctx, schoolID, periodID, actorID, reference, now)
	if err != nil {
		return SettlementResponse{}, err
	}
	if rows == 0 {
		return SettlementResponse{}, payrollerrors.ErrSettlementNotAllowed
	}

	items, err := qtx.SettleItems(ctx, schoolID, periodID)
	if err != nil {
		return SettlementResponse{}, err
	}

	var (
		repaymentIDs []string
		employeeIDs  = make([]string, 0, len(items))
		totalNet     int64
	)
	for _, item := range items {
		repaymentIDs = append(repaymentIDs, item.DeductedRepaymentIDs...)
		employeeIDs = append(employeeIDs, item.EmployeeID.String())
		totalNet += item.NetSalary
	}

	if len(repaymentIDs) > 0 {
		if err := s.loans.MarkRepaid(ctx, tx, schoolID, repaymentIDs, periodID, now); err != nil {
			return SettlementResponse{}, err
		}
	}

	if err := qtx.RefreshTotals(ctx, schoolID, periodID); err != nil {
		return SettlementResponse{}, err
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionSettlementConfirmed,
		Message:    "payroll settlement confirmed",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   periodID,
		Meta: map[string]any{
			"processed_items":         len(items),
			"settled_repayments":      len(repaymentIDs),
			"total_net":               totalNet,
			"bank_transfer_reference": reference,
		},
	}); err != nil {
		return SettlementResponse{}, err
	}

	requestID := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(
		requestID,
		"payroll_period",
		periodID,
		events.EventTypeSettlementConfirmed,
		events.SettlementConfirmedTopic,
		events.SettlementConfirmedEvent{
			EventType:             events.EventTypeSettlementConfirmed,
			RequestID:             requestID,
			PeriodID:              periodID,
			SchoolID:              schoolID,
			Month:                 period.Month,
			Year:                  period.Year,
			ProcessedItems:        len(items),
			EmployeeIDs:           employeeIDs,
			TotalNet:              totalNet,
			BankTransferReference: reference,
			ConfirmedBy:           actorID,
			OccurredAt:            now,
		},
	)
	if err != nil {
		return SettlementResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return SettlementResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SettlementResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, periodID)

	contextutil.GetLogger(ctx, s.logger).Info("payroll settlement confirmed",
		zap.String("school_id", schoolID),
		zap.String("period_id", periodID),
		zap.Int("processed_items", len(items)),
		zap.Int("settled_repayments", len(repaymentIDs)),
	)

	paidAt := &now
	if period.PaidAt != nil {
		paidAt = period.PaidAt
	}

	return SettlementResponse{
		PeriodID:              periodID,
		Status:                StatusPaid,
		PaidAt:                paidAt,
		ProcessedItems:        len(items),
		SettledRepayments:     len(repaymentIDs),
		TotalNet:              money.ToRupees(totalNet),
		BankTransferReference: reference,
	}, nil
}
