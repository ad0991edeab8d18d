package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePeriod(ctx context.Context, period *PayrollPeriod) error
	PeriodExists(ctx context.Context, schoolID string, month, year int) (bool, error)
	FindPeriod(ctx context.Context, schoolID, id string) (*PayrollPeriod, error)
	FindPeriodForUpdate(ctx context.Context, schoolID, id string) (*PayrollPeriod, error)
	ListPeriods(ctx context.Context, schoolID string, year int) ([]PayrollPeriod, error)
	TransitionPeriod(ctx context.Context, schoolID, id, from, to string, fields map[string]any) (int64, error)
	LockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error)
	UnlockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error)
	SettlePeriod(ctx context.Context, schoolID, id, actorID, reference string, at time.Time) (int64, error)
	MarkBankSlipGenerated(ctx context.Context, schoolID, id string, at time.Time) error
	RefreshTotals(ctx context.Context, schoolID, id string) error

	UpsertItem(ctx context.Context, item *PayrollItem) error
	SaveItem(ctx context.Context, item *PayrollItem) error
	FindItem(ctx context.Context, schoolID, id string) (*PayrollItem, error)
	FindItemByEmployee(ctx context.Context, schoolID, periodID, employeeID string) (*PayrollItem, error)
	ListItems(ctx context.Context, schoolID, periodID string) ([]PayrollItem, error)
	CountItems(ctx context.Context, schoolID, periodID string) (int64, error)
	MarkItemsProcessing(ctx context.Context, schoolID string, ids []string) error
	SettleItems(ctx context.Context, schoolID, periodID string) ([]PayrollItem, error)

	UpsertAdjustment(ctx context.Context, adj *PayrollAdjustment) error
	ListAdjustments(ctx context.Context, schoolID, periodID, employeeID string) ([]PayrollAdjustment, error)

	CreatePayslip(ctx context.Context, payslip *Payslip) error
	FindPayslip(ctx context.Context, schoolID, id string) (*Payslip, error)
	FindPayslipByItem(ctx context.Context, schoolID, itemID string) (*Payslip, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) session(ctx context.Context) *gorm.DB {
	return dbtx.Session(ctx, r.db, r.tx)
}

func (r *repository) CreatePeriod(ctx context.Context, period *PayrollPeriod) error {
	return r.session(ctx).Create(period).Error
}

func (r *repository) PeriodExists(ctx context.Context, schoolID string, month, year int) (bool, error) {
	var count int64
	err := r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("month = ? AND year = ?", month, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindPeriod(ctx context.Context, schoolID, id string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *repository) FindPeriodForUpdate(ctx context.Context, schoolID, id string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := r.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *repository) ListPeriods(ctx context.Context, schoolID string, year int) ([]PayrollPeriod, error) {
	var periods []PayrollPeriod
	q := r.session(ctx).Scopes(tenant.Scope(schoolID))
	if year > 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Order("year DESC, month DESC").Find(&periods).Error
	return periods, err
}

// TransitionPeriod moves an unlocked period out of from. Zero rows means the
// period changed underneath the caller.
func (r *repository) TransitionPeriod(ctx context.Context, schoolID, id, from, to string, fields map[string]any) (int64, error) {
	updates := map[string]any{"status": to, "updated_at": gorm.Expr("NOW()")}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ? AND status = ? AND is_locked = ?", id, from, false).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) LockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error) {
	res := r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ? AND is_locked = ? AND status = ?", id, false, StatusPaid).
		Updates(map[string]any{
			"is_locked":   true,
			"locked_at":   at,
			"locked_by":   actorID,
			"lock_reason": reason,
			"updated_at":  gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UnlockPeriod(ctx context.Context, schoolID, id, actorID, reason string, at time.Time) (int64, error) {
	res := r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ? AND is_locked = ?", id, true).
		Updates(map[string]any{
			"is_locked":     false,
			"unlocked_at":   at,
			"unlocked_by":   actorID,
			"unlock_reason": reason,
			"updated_at":    gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) SettlePeriod(ctx context.Context, schoolID, id, actorID, reference string, at time.Time) (int64, error) {
	res := r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ? AND is_locked = ? AND status IN ?", id, false, []string{StatusApproved, StatusPaid}).
		Updates(map[string]any{
			"status":                  StatusPaid,
			"paid_at":                 gorm.Expr("COALESCE(paid_at, ?)", at),
			"settlement_confirmed_at": at,
			"settlement_confirmed_by": actorID,
			"bank_transfer_reference": reference,
			"updated_at":              gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkBankSlipGenerated(ctx context.Context, schoolID, id string, at time.Time) error {
	return r.session(ctx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Updates(map[string]any{"bank_slip_generated_at": at, "updated_at": gorm.Expr("NOW()")}).Error
}

func (r *repository) RefreshTotals(ctx context.Context, schoolID, id string) error {
	return r.session(ctx).Exec(`
		UPDATE payroll_periods AS p
		SET total_gross = t.gross,
			total_deductions = t.deductions,
			total_net = t.net,
			employee_count = t.employees,
			ready_count = t.ready,
			on_hold_count = t.on_hold,
			updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(gross_earnings), 0) AS gross,
				COALESCE(SUM(total_deductions), 0) AS deductions,
				COALESCE(SUM(net_salary), 0) AS net,
				COUNT(*) AS employees,
				COUNT(*) FILTER (WHERE readiness = ?) AS ready,
				COUNT(*) FILTER (WHERE readiness = ?) AS on_hold
			FROM payroll_items
			WHERE school_id = ? AND period_id = ?
		) AS t
		WHERE p.id = ? AND p.school_id = ?`,
		ReadinessReady, ReadinessOnHold, schoolID, id, id, schoolID,
	).Error
}

var itemComputedColumns = []string{
	"employee_name", "bank_name", "bank_account_number", "bank_ifsc",
	"basic_earned", "hra_earned", "da_earned", "ta_earned", "medical_earned",
	"special_earned", "other_earned", "overtime", "incentives", "arrears",
	"gross_earnings", "pf_employee", "pf_employer", "esi_employee", "esi_employer",
	"professional_tax", "tds", "loan_deduction", "advance_deduction", "loss_of_pay",
	"total_deductions", "unrecovered_deductions", "net_salary", "days_worked",
	"days_absent", "readiness", "hold_reason", "deducted_repayment_ids",
	"computed_at", "updated_at",
}

// ErrPeriodNotWritable is returned by UpsertItem when the period has left
// DRAFT/PROCESSING or is locked by the time the row is written.
var ErrPeriodNotWritable = errors.New("payroll period no longer accepts item writes")

// UpsertItem writes a computed item keyed by (period_id, employee_id).
// Payment status and manual hold survive a recompute. The period row is held
// FOR SHARE until the write commits, so Approve (FOR UPDATE) either waits for
// it or makes it fail.
func (r *repository) UpsertItem(ctx context.Context, item *PayrollItem) error {
	return r.session(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Raw(`
			SELECT id FROM payroll_periods
			WHERE id = ? AND school_id = ? AND status IN ? AND is_locked = false
			FOR SHARE`,
			item.PeriodID, item.SchoolID, []string{StatusDraft, StatusProcessing},
		).Scan(&ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ErrPeriodNotWritable
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "period_id"}, {Name: "employee_id"}},
				DoUpdates: clause.AssignmentColumns(itemComputedColumns),
			}).
			Create(item).Error
	})
}

func (r *repository) SaveItem(ctx context.Context, item *PayrollItem) error {
	return r.session(ctx).Save(item).Error
}

func (r *repository) FindItem(ctx context.Context, schoolID, id string) (*PayrollItem, error) {
	var item PayrollItem
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItemByEmployee(ctx context.Context, schoolID, periodID, employeeID string) (*PayrollItem, error) {
	var item PayrollItem
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("period_id = ? AND employee_id = ?", periodID, employeeID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, schoolID, periodID string) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("period_id = ?", periodID).
		Order("employee_name ASC, employee_id ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) CountItems(ctx context.Context, schoolID, periodID string) (int64, error) {
	var count int64
	err := r.session(ctx).
		Model(&PayrollItem{}).
		Scopes(tenant.Scope(schoolID)).
		Where("period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkItemsProcessing(ctx context.Context, schoolID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.session(ctx).
		Model(&PayrollItem{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id IN ? AND payment_status = ?", ids, PaymentPending).
		Updates(map[string]any{"payment_status": PaymentProcessing, "updated_at": gorm.Expr("NOW()")}).Error
}

// SettleItems moves every ready in-flight item to PROCESSED and returns the
// rows it touched. Held items are not selected and stay PENDING.
func (r *repository) SettleItems(ctx context.Context, schoolID, periodID string) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.session(ctx).Raw(`
		UPDATE payroll_items
		SET payment_status = ?, updated_at = NOW()
		WHERE school_id = ? AND period_id = ? AND readiness = ? AND payment_status IN ?
		RETURNING *`,
		PaymentProcessed, schoolID, periodID, ReadinessReady,
		[]string{PaymentPending, PaymentProcessing},
	).Scan(&items).Error
	return items, err
}

func (r *repository) UpsertAdjustment(ctx context.Context, adj *PayrollAdjustment) error {
	return r.session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period_id"}, {Name: "employee_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "note", "created_by", "updated_at"}),
		}).
		Create(adj).Error
}

func (r *repository) ListAdjustments(ctx context.Context, schoolID, periodID, employeeID string) ([]PayrollAdjustment, error) {
	var rows []PayrollAdjustment
	q := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("period_id = ?", periodID)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	err := q.Order("employee_id ASC, kind ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CreatePayslip(ctx context.Context, payslip *Payslip) error {
	return r.session(ctx).Create(payslip).Error
}

func (r *repository) FindPayslip(ctx context.Context, schoolID, id string) (*Payslip, error) {
	var payslip Payslip
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&payslip).Error
	if err != nil {
		return nil, err
	}
	return &payslip, nil
}

func (r *repository) FindPayslipByItem(ctx context.Context, schoolID, itemID string) (*Payslip, error) {
	var payslip Payslip
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("item_id = ?", itemID).
		First(&payslip).Error
	if err != nil {
		return nil, err
	}
	return &payslip, nil
}
