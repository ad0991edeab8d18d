package payroll

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollprofile"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/statutory"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const summaryTTL = 10 * time.Minute

type AttendanceSummary struct {
	Worked int
	Absent int
}

// AttendanceProvider reports attendance of one employee over a date range.
type AttendanceProvider interface {
	DaysWorked(ctx context.Context, schoolID, employeeID string, from, to time.Time) (AttendanceSummary, error)
}

// ProfileSource is satisfied by payrollprofile.Repository.
type ProfileSource interface {
	FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]payrollprofile.EmployeePayrollProfile, error)
	FindByEmployeeID(ctx context.Context, schoolID, employeeID string) (*payrollprofile.EmployeePayrollProfile, error)
}

// StructureLookup is satisfied by salarystructure.Repository.
type StructureLookup interface {
	FindByID(ctx context.Context, schoolID, id string) (*salarystructure.SalaryStructure, error)
}

// LoanLedger is satisfied by loan.Service.
type LoanLedger interface {
	DueForPeriod(ctx context.Context, schoolID, employeeID string, month, year int) ([]loan.DueRepayment, error)
	MarkRepaid(ctx context.Context, tx *sql.Tx, schoolID string, repaymentIDs []string, periodID string, paidAt time.Time) error
}

type Dependencies struct {
	Profiles   ProfileSource
	Structures StructureLookup
	Loans      LoanLedger
	Attendance AttendanceProvider
	Calendar   CalendarProvider
	Tax        TaxPolicy
	Counters   counter.Repository
	Outbox     kafka.OutboxRepository
	Audit      audit.Repository
	Cache      cache.Cache
	Statutory  statutory.Config
	PayslipDir string
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	CreatePeriod(ctx context.Context, schoolID, actorID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, schoolID, id string) (PeriodResponse, error)
	ListPeriods(ctx context.Context, schoolID string, year int) ([]PeriodResponse, error)
	GetSummary(ctx context.Context, schoolID, id string) (SummaryResponse, error)
	Process(ctx context.Context, schoolID, id, actorID string) (ProcessResponse, error)
	Approve(ctx context.Context, schoolID, id, actorID string) (PeriodResponse, error)
	Lock(ctx context.Context, schoolID, id, actorID, reason string) (PeriodResponse, error)
	Unlock(ctx context.Context, schoolID, id, actorID, reason string) (PeriodResponse, error)

	ComputeItems(ctx context.Context, schoolID, periodID string, employeeIDs []string) (BatchResult, error)
	ComputeItem(ctx context.Context, schoolID, periodID, employeeID string) (ItemResponse, error)
	ListItems(ctx context.Context, schoolID, periodID string) ([]ItemResponse, error)
	GetItem(ctx context.Context, schoolID, id string) (ItemResponse, error)
	SetItemHold(ctx context.Context, schoolID, itemID string, hold bool, reason string) (ItemResponse, error)
	UpsertAdjustment(ctx context.Context, schoolID, periodID, actorID string, req AdjustmentRequest) (AdjustmentResponse, error)

	GenerateBankSlip(ctx context.Context, schoolID, periodID string, format string) (BankSlipFile, error)
	ConfirmSettlement(ctx context.Context, schoolID, periodID, actorID, reference string) (SettlementResponse, error)

	GeneratePayslip(ctx context.Context, schoolID, itemID string) (PayslipResponse, error)
	GeneratePeriodPayslips(ctx context.Context, schoolID, periodID string) (BatchResult, error)
	GetPayslipPDF(ctx context.Context, schoolID, payslipID string) ([]byte, string, error)
	RequestPayslips(ctx context.Context, schoolID, periodID, actorID string) (PayslipRequestResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	profiles   ProfileSource
	structures StructureLookup
	loans      LoanLedger
	attendance AttendanceProvider
	calendar   CalendarProvider
	calc       Calculator
	counters   counter.Repository
	outbox     kafka.OutboxRepository
	auditRepo  audit.Repository
	cache      cache.Cache
	sf         singleflight.Group
	stat       statutory.Config
	payslipDir string
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	base := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		base = logger[0]
	}
	if deps.Cache == nil {
		deps.Cache = cache.NoopCache{}
	}
	return &service{
		db:         db,
		repo:       repo,
		profiles:   deps.Profiles,
		structures: deps.Structures,
		loans:      deps.Loans,
		attendance: deps.Attendance,
		calendar:   deps.Calendar,
		calc:       NewCalculator(deps.Statutory, deps.Tax),
		counters:   deps.Counters,
		outbox:     deps.Outbox,
		auditRepo:  deps.Audit,
		cache:      deps.Cache,
		stat:       deps.Statutory,
		payslipDir: deps.PayslipDir,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     base.Named("payroll.service"),
	}
}

func periodCachePrefix(schoolID, periodID string) string {
	return cache.Key("payroll", "period", schoolID, periodID)
}

func (s *service) invalidatePeriod(ctx context.Context, schoolID, periodID string) {
	cache.Invalidate(ctx, s.cache, periodCachePrefix(schoolID, periodID))
}

func (s *service) CreatePeriod(ctx context.Context, schoolID, actorID string, req CreatePeriodRequest) (PeriodResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return PeriodResponse{}, payrollerrors.ErrInvalidSchoolID
	}
	if req.Month < 1 || req.Month > 12 {
		return PeriodResponse{}, payrollerrors.ErrInvalidMonth
	}
	if req.Year < 2000 || req.Year > 2100 {
		return PeriodResponse{}, payrollerrors.ErrInvalidYear
	}

	cal, err := resolveCalendar(ctx, s.calendar, schoolID, req.Year, req.Month)
	if err != nil {
		return PeriodResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.PeriodExists(ctx, schoolID, req.Month, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}
	if exists {
		return PeriodResponse{}, payrollerrors.ErrDuplicatePeriod
	}

	period := &PayrollPeriod{
		ID:               uuid.New(),
		SchoolID:         schoolUUID,
		Month:            req.Month,
		Year:             req.Year,
		StartDate:        cal.Start,
		EndDate:          cal.End,
		TotalWorkingDays: cal.WorkingDays,
		TotalHolidays:    cal.Holidays,
		TotalWeekends:    cal.Weekends,
		Status:           StatusDraft,
		CreatedBy:        actorID,
	}

	// The unique index still decides a race between two creators.
	if err := qtx.CreatePeriod(ctx, period); err != nil {
		return PeriodResponse{}, mapPeriodError(err)
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPeriodCreated,
		Message:    "payroll period created",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   period.ID.String(),
		Meta:       map[string]any{"month": req.Month, "year": req.Year, "working_days": cal.WorkingDays},
	}); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll period created",
		zap.String("school_id", schoolID),
		zap.String("period_id", period.ID.String()),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	return mapPeriodToResponse(*period), nil
}

func (s *service) GetPeriod(ctx context.Context, schoolID, id string) (PeriodResponse, error) {
	period, err := s.repo.FindPeriod(ctx, schoolID, id)
	if err != nil {
		return PeriodResponse{}, mapPeriodError(err)
	}
	return mapPeriodToResponse(*period), nil
}

func (s *service) ListPeriods(ctx context.Context, schoolID string, year int) ([]PeriodResponse, error) {
	periods, err := s.repo.ListPeriods(ctx, schoolID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, mapPeriodToResponse(p))
	}
	return resp, nil
}

func (s *service) GetSummary(ctx context.Context, schoolID, id string) (SummaryResponse, error) {
	key := cache.Key(periodCachePrefix(schoolID, id), "summary")
	return cache.Remember(ctx, s.cache, &s.sf, key, summaryTTL, func(ctx context.Context) (SummaryResponse, error) {
		period, err := s.repo.FindPeriod(ctx, schoolID, id)
		if err != nil {
			return SummaryResponse{}, mapPeriodError(err)
		}
		return SummaryResponse{
			PeriodID:        period.ID.String(),
			Status:          period.Status,
			IsLocked:        period.IsLocked,
			EmployeeCount:   period.EmployeeCount,
			ReadyCount:      period.ReadyCount,
			OnHoldCount:     period.OnHoldCount,
			TotalGross:      money.ToRupees(period.TotalGross),
			TotalDeductions: money.ToRupees(period.TotalDeductions),
			TotalNet:        money.ToRupees(period.TotalNet),
		}, nil
	})
}

// Process opens a DRAFT period for computation and computes every active
// profile. Items stay recomputable while the period is PROCESSING.
func (s *service) Process(ctx context.Context, schoolID, id, actorID string) (ProcessResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProcessResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindPeriodForUpdate(ctx, schoolID, id)
	if err != nil {
		return ProcessResponse{}, mapPeriodError(err)
	}
	if err := checkTransition(period, StatusProcessing); err != nil {
		return ProcessResponse{}, err
	}

	now := s.now()
	rows, err := qtx.TransitionPeriod(ctx, schoolID, id, StatusDraft, StatusProcessing, map[string]any{"processed_at": now})
	if err != nil {
		return ProcessResponse{}, err
	}
	if rows == 0 {
		return ProcessResponse{}, payrollerrors.ErrInvalidTransition
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPeriodProcessed,
		Message:    "payroll period processing started",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   id,
	}); err != nil {
		return ProcessResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProcessResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, id)

	batch, err := s.ComputeItems(ctx, schoolID, id, nil)
	if err != nil {
		return ProcessResponse{}, err
	}

	updated, err := s.repo.FindPeriod(ctx, schoolID, id)
	if err != nil {
		return ProcessResponse{}, mapPeriodError(err)
	}

	return ProcessResponse{Period: mapPeriodToResponse(*updated), Batch: batch}, nil
}

func (s *service) Approve(ctx context.Context, schoolID, id, actorID string) (PeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindPeriodForUpdate(ctx, schoolID, id)
	if err != nil {
		return PeriodResponse{}, mapPeriodError(err)
	}
	if err := checkTransition(period, StatusApproved); err != nil {
		return PeriodResponse{}, err
	}

	count, err := qtx.CountItems(ctx, schoolID, id)
	if err != nil {
		return PeriodResponse{}, err
	}
	if count == 0 {
		return PeriodResponse{}, payrollerrors.ErrNoItemsToApprove
	}

	now := s.now()
	rows, err := qtx.TransitionPeriod(ctx, schoolID, id, StatusProcessing, StatusApproved, map[string]any{
		"approved_at": now,
		"approved_by": actorID,
	})
	if err != nil {
		return PeriodResponse{}, err
	}
	if rows == 0 {
		return PeriodResponse{}, payrollerrors.ErrInvalidTransition
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPeriodApproved,
		Message:    "payroll period approved",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   id,
		Meta:       map[string]any{"items": count},
	}); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, id)

	period.Status = StatusApproved
	period.ApprovedAt = &now
	period.ApprovedBy = actorID
	return mapPeriodToResponse(*period), nil
}

// Lock freezes a PAID period. A second lock changes nothing and writes no
// audit row.
func (s *service) Lock(ctx context.Context, schoolID, id, actorID, reason string) (PeriodResponse, error) {
	reason = strings.TrimSpace(reason)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := s.now()
	rows, err := qtx.LockPeriod(ctx, schoolID, id, actorID, reason, now)
	if err != nil {
		return PeriodResponse{}, err
	}
	if rows == 0 {
		period, err := qtx.FindPeriod(ctx, schoolID, id)
		if err != nil {
			return PeriodResponse{}, mapPeriodError(err)
		}
		if period.IsLocked {
			return PeriodResponse{}, payrollerrors.ErrPeriodAlreadyLocked
		}
		return PeriodResponse{}, payrollerrors.ErrPeriodNotPaid
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPeriodLocked,
		Message:    "payroll period locked",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   id,
		Meta:       map[string]any{"reason": reason},
	}); err != nil {
		return PeriodResponse{}, err
	}

	period, err := qtx.FindPeriod(ctx, schoolID, id)
	if err != nil {
		return PeriodResponse{}, mapPeriodError(err)
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, id)

	return mapPeriodToResponse(*period), nil
}

func (s *service) Unlock(ctx context.Context, schoolID, id, actorID, reason string) (PeriodResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PeriodResponse{}, payrollerrors.ErrUnlockReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := s.now()
	rows, err := qtx.UnlockPeriod(ctx, schoolID, id, actorID, reason, now)
	if err != nil {
		return PeriodResponse{}, err
	}
	if rows == 0 {
		if _, err := qtx.FindPeriod(ctx, schoolID, id); err != nil {
			return PeriodResponse{}, mapPeriodError(err)
		}
		return PeriodResponse{}, payrollerrors.ErrPeriodNotLocked
	}

	if err := s.auditRepo.WithTx(tx).Create(ctx, audit.AuditLog{
		Action:     audit.ActionPeriodUnlocked,
		Message:    "payroll period unlocked",
		SchoolID:   schoolID,
		ActorID:    actorID,
		EntityType: "payroll_period",
		EntityID:   id,
		Meta:       map[string]any{"reason": reason},
	}); err != nil {
		return PeriodResponse{}, err
	}

	period, err := qtx.FindPeriod(ctx, schoolID, id)
	if err != nil {
		return PeriodResponse{}, mapPeriodError(err)
	}

	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}
	s.invalidatePeriod(ctx, schoolID, id)

	contextutil.GetLogger(ctx, s.logger).Warn("payroll period unlocked",
		zap.String("school_id", schoolID),
		zap.String("period_id", id),
		zap.String("actor_id", actorID),
		zap.String("reason", reason),
	)

	return mapPeriodToResponse(*period), nil
}

func mapPeriodToResponse(p PayrollPeriod) PeriodResponse {
	return PeriodResponse{
		ID:                    p.ID.String(),
		Month:                 p.Month,
		Year:                  p.Year,
		Label:                 p.Label(),
		StartDate:             p.StartDate.Format(dateLayout),
		EndDate:               p.EndDate.Format(dateLayout),
		TotalWorkingDays:      p.TotalWorkingDays,
		TotalHolidays:         p.TotalHolidays,
		TotalWeekends:         p.TotalWeekends,
		Status:                p.Status,
		IsLocked:              p.IsLocked,
		LockedAt:              p.LockedAt,
		LockedBy:              p.LockedBy,
		LockReason:            p.LockReason,
		UnlockedAt:            p.UnlockedAt,
		UnlockedBy:            p.UnlockedBy,
		UnlockReason:          p.UnlockReason,
		ProcessedAt:           p.ProcessedAt,
		ApprovedAt:            p.ApprovedAt,
		ApprovedBy:            p.ApprovedBy,
		PaidAt:                p.PaidAt,
		SettlementConfirmedAt: p.SettlementConfirmedAt,
		SettlementConfirmedBy: p.SettlementConfirmedBy,
		BankTransferReference: p.BankTransferReference,
		BankSlipGeneratedAt:   p.BankSlipGeneratedAt,
		TotalGross:            money.ToRupees(p.TotalGross),
		TotalDeductions:       money.ToRupees(p.TotalDeductions),
		TotalNet:              money.ToRupees(p.TotalNet),
	}
}
