package loan

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-payroll/internal/audit"
	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxTenureMonths = 360

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	CreateLoan(ctx context.Context, schoolID string, req CreateLoanRequest) (LoanResponse, error)
	ApproveLoan(ctx context.Context, schoolID, id, actorID string) (LoanResponse, error)
	GetLoan(ctx context.Context, schoolID, id string) (LoanResponse, error)
	ListByEmployee(ctx context.Context, schoolID, employeeID string) ([]LoanResponse, error)
	DueForPeriod(ctx context.Context, schoolID, employeeID string, month, year int) ([]DueRepayment, error)
	MarkRepaid(ctx context.Context, tx *sql.Tx, schoolID string, repaymentIDs []string, periodID string, paidAt time.Time) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	auditRepo audit.Repository
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditRepo audit.Repository, logger ...*zap.Logger) Service {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	return &service{
		db:        db,
		repo:      repo,
		auditRepo: auditRepo,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    base.Named("loan.service"),
	}
}

func (s *service) CreateLoan(ctx context.Context, schoolID string, req CreateLoanRequest) (LoanResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return LoanResponse{}, apperror.InvalidField("school_id")
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LoanResponse{}, apperror.InvalidField("employee_id")
	}

	loanType := strings.ToUpper(strings.TrimSpace(req.LoanType))
	if loanType != TypeLoan && loanType != TypeAdvance {
		return LoanResponse{}, loanerrors.ErrInvalidLoanType
	}
	principal := money.FromRupees(req.PrincipalAmount)
	if principal <= 0 {
		return LoanResponse{}, loanerrors.ErrInvalidPrincipal
	}
	if req.InterestRate.IsNegative() {
		return LoanResponse{}, loanerrors.ErrInvalidInterestRate
	}
	if req.TenureMonths < 1 || req.TenureMonths > maxTenureMonths {
		return LoanResponse{}, loanerrors.ErrInvalidTenure
	}
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(req.StartDate))
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidStartDate
	}

	schedule := BuildSchedule(principal, req.InterestRate, req.TenureMonths, start)

	loan := &EmployeeLoan{
		ID:              uuid.New(),
		SchoolID:        schoolUUID,
		EmployeeID:      employeeUUID,
		LoanType:        loanType,
		PrincipalAmount: principal,
		InterestRate:    req.InterestRate,
		TenureMonths:    req.TenureMonths,
		StartDate:       start,
		TotalAmount:     schedule.Total,
		EMIAmount:       schedule.EMI,
		AmountPending:   schedule.Total,
		Status:          StatusPendingApproval,
		Reason:          strings.TrimSpace(req.Reason),
	}

	rows := make([]LoanRepayment, 0, len(schedule.Installments))
	for _, inst := range schedule.Installments {
		rows = append(rows, LoanRepayment{
			ID:            uuid.New(),
			SchoolID:      schoolUUID,
			LoanID:        loan.ID,
			EmployeeID:    employeeUUID,
			InstallmentNo: inst.No,
			Month:         inst.Month,
			Year:          inst.Year,
			Amount:        inst.Amount,
			Status:        RepaymentPending,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateLoan(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateRepayments(ctx, rows); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("loan created",
		zap.String("school_id", schoolID),
		zap.String("loan_id", loan.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int64("total", schedule.Total),
		zap.Int("tenure", req.TenureMonths),
	)

	return mapToResponse(*loan, rows), nil
}

func (s *service) ApproveLoan(ctx context.Context, schoolID, id, actorID string) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	loan, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if loan.Status != StatusPendingApproval {
		return LoanResponse{}, loanerrors.ErrLoanNotPendingApproval
	}

	now := s.now()
	loan.Status = StatusActive
	loan.ApprovedAt = &now
	loan.ApprovedBy = actorID

	if err := qtx.SaveLoan(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionLoanApproved,
		Message:    "employee loan approved",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "employee_loan",
		EntityID:   id,
		Meta: map[string]any{
			"loan_type":   loan.LoanType,
			"total":       loan.TotalAmount,
			"employee_id": loan.EmployeeID.String(),
		},
	}); err != nil {
		return LoanResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	return mapToResponse(*loan, nil), nil
}

func (s *service) GetLoan(ctx context.Context, schoolID, id string) (LoanResponse, error) {
	loan, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	rows, err := s.repo.ListRepayments(ctx, schoolID, id)
	if err != nil {
		return LoanResponse{}, err
	}

	return mapToResponse(*loan, rows), nil
}

func (s *service) ListByEmployee(ctx context.Context, schoolID, employeeID string) ([]LoanResponse, error) {
	loans, err := s.repo.ListByEmployee(ctx, schoolID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, mapToResponse(l, nil))
	}
	return resp, nil
}

func (s *service) DueForPeriod(ctx context.Context, schoolID, employeeID string, month, year int) ([]DueRepayment, error) {
	return s.repo.FindDue(ctx, schoolID, employeeID, month, year)
}

// MarkRepaid runs inside the caller's settlement transaction.
func (s *service) MarkRepaid(ctx context.Context, tx *sql.Tx, schoolID string, repaymentIDs []string, periodID string, paidAt time.Time) error {
	if len(repaymentIDs) == 0 {
		return nil
	}

	qtx := s.repo.WithTx(tx)

	loanIDs, err := qtx.MarkRepaymentsPaid(ctx, schoolID, repaymentIDs, periodID, paidAt)
	if err != nil {
		return err
	}
	if err := qtx.RefreshBalances(ctx, schoolID, loanIDs); err != nil {
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("loan repayments settled",
		zap.String("school_id", schoolID),
		zap.String("period_id", periodID),
		zap.Int("repayments", len(repaymentIDs)),
		zap.Int("loans", len(loanIDs)),
	)
	return nil
}

func mapToResponse(l EmployeeLoan, rows []LoanRepayment) LoanResponse {
	resp := LoanResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LoanType:        l.LoanType,
		PrincipalAmount: money.ToRupees(l.PrincipalAmount),
		InterestRate:    l.InterestRate,
		TenureMonths:    l.TenureMonths,
		StartDate:       l.StartDate.Format(time.DateOnly),
		TotalAmount:     money.ToRupees(l.TotalAmount),
		EMIAmount:       money.ToRupees(l.EMIAmount),
		AmountPaid:      money.ToRupees(l.AmountPaid),
		AmountPending:   money.ToRupees(l.AmountPending),
		Status:          l.Status,
		Reason:          l.Reason,
		ApprovedAt:      l.ApprovedAt,
		ApprovedBy:      l.ApprovedBy,
	}

	for _, r := range rows {
		row := RepaymentResponse{
			ID:            r.ID.String(),
			InstallmentNo: r.InstallmentNo,
			Month:         r.Month,
			Year:          r.Year,
			Amount:        money.ToRupees(r.Amount),
			Status:        r.Status,
			PaidAt:        r.PaidAt,
		}
		if r.PayrollPeriodID != nil {
			row.PeriodID = r.PayrollPeriodID.String()
		}
		resp.Repayments = append(resp.Repayments, row)
	}
	return resp
}
