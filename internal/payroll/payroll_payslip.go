package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GeneratePayslip snapshots an item into an immutable payslip. A second call
// for the same item returns the stored snapshot.
func (s *service) GeneratePayslip(ctx context.Context, schoolID, itemID string) (PayslipResponse, error) {
	payslip, err := s.generatePayslip(ctx, schoolID, itemID)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapPayslipToResponse(*payslip), nil
}

func (s *service) generatePayslip(ctx context.Context, schoolID, itemID string) (*Payslip, error) {
	item, err := s.repo.FindItem(ctx, schoolID, itemID)
	if err != nil {
		return nil, mapItemError(err)
	}
	period, err := s.repo.FindPeriod(ctx, schoolID, item.PeriodID.String())
	if err != nil {
		return nil, mapPeriodError(err)
	}
	if !isIssued(period.Status) {
		return nil, payrollerrors.ErrPayslipPeriodNotApproved
	}

	existing, err := s.repo.FindPayslipByItem(ctx, schoolID, itemID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, schoolID, counter.TypePayslipNumber)
	if err != nil {
		return nil, err
	}

	payslip := buildPayslip(*item, *period, seq)
	payslip.GeneratedAt = s.now()

	if err := s.repo.WithTx(tx).CreatePayslip(ctx, payslip); err != nil {
		if isPayslipConflict(err) {
			_ = tx.Rollback()
			return s.repo.FindPayslipByItem(ctx, schoolID, itemID)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payslip generated",
		zap.String("school_id", schoolID),
		zap.String("item_id", itemID),
		zap.String("payslip_number", payslip.PayslipNumber),
	)
	return payslip, nil
}

func (s *service) GeneratePeriodPayslips(ctx context.Context, schoolID, periodID string) (BatchResult, error) {
	period, err := s.repo.FindPeriod(ctx, schoolID, periodID)
	if err != nil {
		return BatchResult{}, mapPeriodError(err)
	}
	if !isIssued(period.Status) {
		return BatchResult{}, payrollerrors.ErrPayslipPeriodNotApproved
	}

	items, err := s.repo.ListItems(ctx, schoolID, periodID)
	if err != nil {
		return BatchResult{}, err
	}

	batch := BatchResult{Results: make([]ItemResult, 0, len(items))}
	for _, item := range items {
		result := ItemResult{
			EmployeeID:   item.EmployeeID.String(),
			EmployeeName: item.EmployeeName,
			ItemID:       item.ID.String(),
			Status:       ResultComputed,
		}

		payslip, err := s.generatePayslip(ctx, schoolID, item.ID.String())
		if err == nil {
			err = s.archivePayslip(*payslip)
		}
		if err != nil {
			contextutil.GetLogger(ctx, s.logger).Warn("payslip generation failed",
				zap.String("period_id", periodID),
				zap.String("item_id", result.ItemID),
				zap.Error(err),
			)
			result.Status = ResultFailed
			result.Error = err.Error()
		}
		batch.add(result)
	}

	return batch, nil
}

func (s *service) GetPayslipPDF(ctx context.Context, schoolID, payslipID string) ([]byte, string, error) {
	payslip, err := s.repo.FindPayslip(ctx, schoolID, payslipID)
	if err != nil {
		return nil, "", mapRepositoryError(err, payrollerrors.ErrPayslipNotFound)
	}

	content, err := RenderPayslipPDF(*payslip)
	if err != nil {
		return nil, "", err
	}
	return content, payslip.PayslipNumber + ".pdf", nil
}

// RequestPayslips queues batch generation for the consumer.
func (s *service) RequestPayslips(ctx context.Context, schoolID, periodID, actorID string) (PayslipRequestResponse, error) {
	period, err := s.repo.FindPeriod(ctx, schoolID, periodID)
	if err != nil {
		return PayslipRequestResponse{}, mapPeriodError(err)
	}
	if !isIssued(period.Status) {
		return PayslipRequestResponse{}, payrollerrors.ErrPayslipPeriodNotApproved
	}

	requestID := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(
		requestID,
		"payroll_period",
		periodID,
		events.EventTypePayslipRequested,
		events.PayrollPayslipRequestedTopic,
		events.PayrollPayslipRequestedEvent{
			EventType:   events.EventTypePayslipRequested,
			RequestID:   requestID,
			PeriodID:    periodID,
			SchoolID:    schoolID,
			RequestedBy: actorID,
			OccurredAt:  s.now(),
		},
	)
	if err != nil {
		return PayslipRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipRequestResponse{}, err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return PayslipRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipRequestResponse{}, err
	}

	return PayslipRequestResponse{PeriodID: periodID, Queued: true}, nil
}

// archivePayslip keeps a PDF copy on disk when a payslip directory is set.
func (s *service) archivePayslip(p Payslip) error {
	if s.payslipDir == "" {
		return nil
	}
	dir := filepath.Join(s.payslipDir, p.SchoolID.String(), p.PeriodID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	content, err := RenderPayslipPDF(p)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, p.PayslipNumber+".pdf"), content, 0o640)
}

func buildPayslip(item PayrollItem, period PayrollPeriod, seq int64) *Payslip {
	earnings := nonZero([]PayslipLine{
		{"Basic", item.BasicEarned},
		{"HRA", item.HRAEarned},
		{"Dearness Allowance", item.DAEarned},
		{"Travel Allowance", item.TAEarned},
		{"Medical Allowance", item.MedicalEarned},
		{"Special Allowance", item.SpecialEarned},
		{"Other Allowances", item.OtherEarned},
		{"Overtime", item.Overtime},
		{"Incentives", item.Incentives},
		{"Arrears", item.Arrears},
	})
	deductions := nonZero([]PayslipLine{
		{"Loss of Pay", item.LossOfPay},
		{"Provident Fund", item.PFEmployee},
		{"ESI", item.ESIEmployee},
		{"Professional Tax", item.ProfessionalTax},
		{"TDS", item.TDS},
		{"Loan Recovery", item.LoanDeduction},
		{"Salary Advance Recovery", item.AdvanceDeduction},
	})

	return &Payslip{
		ID:              uuid.New(),
		SchoolID:        item.SchoolID,
		PeriodID:        item.PeriodID,
		ItemID:          item.ID,
		EmployeeID:      item.EmployeeID,
		PayslipNumber:   fmt.Sprintf("PS-%04d%02d-%06d", period.Year, period.Month, seq),
		EmployeeName:    item.EmployeeName,
		PeriodLabel:     period.Label(),
		Earnings:        earnings,
		Deductions:      deductions,
		GrossEarnings:   item.GrossEarnings,
		TotalDeductions: item.TotalDeductions,
		NetSalary:       item.NetSalary,
		DaysWorked:      item.DaysWorked,
		DaysAbsent:      item.DaysAbsent,
		BankAccount:     maskAccount(item.BankAccountNumber),
	}
}

func nonZero(lines []PayslipLine) []PayslipLine {
	out := make([]PayslipLine, 0, len(lines))
	for _, l := range lines {
		if l.Amount != 0 {
			out = append(out, l)
		}
	}
	return out
}

func maskAccount(v string) string {
	if len(v) <= 4 {
		return v
	}
	return strings.Repeat("X", len(v)-4) + v[len(v)-4:]
}

func isPayslipConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payslip_item"
	}
	return strings.Contains(err.Error(), "uq_payslip_item")
}

func mapPayslipToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:              p.ID.String(),
		PayslipNumber:   p.PayslipNumber,
		PeriodID:        p.PeriodID.String(),
		ItemID:          p.ItemID.String(),
		EmployeeID:      p.EmployeeID.String(),
		EmployeeName:    p.EmployeeName,
		PeriodLabel:     p.PeriodLabel,
		Earnings:        mapLines(p.Earnings),
		Deductions:      mapLines(p.Deductions),
		GrossEarnings:   money.ToRupees(p.GrossEarnings),
		TotalDeductions: money.ToRupees(p.TotalDeductions),
		NetSalary:       money.ToRupees(p.NetSalary),
		DaysWorked:      p.DaysWorked,
		DaysAbsent:      p.DaysAbsent,
		BankAccount:     p.BankAccount,
		GeneratedAt:     p.GeneratedAt,
	}
}

func mapLines(lines []PayslipLine) []PayslipLineResponse {
	out := make([]PayslipLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, PayslipLineResponse{Label: l.Label, Amount: money.ToRupees(l.Amount)})
	}
	return out
}
