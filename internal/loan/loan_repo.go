package loan

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateLoan(ctx context.Context, loan *EmployeeLoan) error
	CreateRepayments(ctx context.Context, rows []LoanRepayment) error
	SaveLoan(ctx context.Context, loan *EmployeeLoan) error
	FindByID(ctx context.Context, schoolID, id string) (*EmployeeLoan, error)
	FindByIDForUpdate(ctx context.Context, schoolID, id string) (*EmployeeLoan, error)
	ListByEmployee(ctx context.Context, schoolID, employeeID string) ([]EmployeeLoan, error)
	ListRepayments(ctx context.Context, schoolID, loanID string) ([]LoanRepayment, error)
	FindDue(ctx context.Context, schoolID, employeeID string, month, year int) ([]DueRepayment, error)
	MarkRepaymentsPaid(ctx context.Context, schoolID string, ids []string, periodID string, paidAt time.Time) ([]string, error)
	RefreshBalances(ctx context.Context, schoolID string, loanIDs []string) error
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

func (r *repository) CreateLoan(ctx context.Context, loan *EmployeeLoan) error {
	return r.session(ctx).Create(loan).Error
}

func (r *repository) CreateRepayments(ctx context.Context, rows []LoanRepayment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.session(ctx).CreateInBatches(rows, 120).Error
}

func (r *repository) SaveLoan(ctx context.Context, loan *EmployeeLoan) error {
	return r.session(ctx).Save(loan).Error
}

func (r *repository) FindByID(ctx context.Context, schoolID, id string) (*EmployeeLoan, error) {
	var loan EmployeeLoan
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*EmployeeLoan, error) {
	var loan EmployeeLoan
	err := r.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) ListByEmployee(ctx context.Context, schoolID, employeeID string) ([]EmployeeLoan, error) {
	var loans []EmployeeLoan
	q := r.session(ctx).Scopes(tenant.Scope(schoolID))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	err := q.Order("start_date DESC, created_at DESC").Find(&loans).Error
	return loans, err
}

func (r *repository) ListRepayments(ctx context.Context, schoolID, loanID string) ([]LoanRepayment, error) {
	var rows []LoanRepayment
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("loan_id = ?", loanID).
		Order("installment_no ASC").
		Find(&rows).Error
	return rows, err
}

// paidPeriodStatus mirrors the payroll period status after settlement. Items of
// such periods no longer hold a claim on the rows they could not recover.
const paidPeriodStatus = "PAID"

// FindDue returns the pending rows of active loans due in or before the given
// month. Overdue rows (approved late, or not recoverable from an earlier
// salary) carry forward unless an item of another unsettled period already
// deducts them.
func (r *repository) FindDue(ctx context.Context, schoolID, employeeID string, month, year int) ([]DueRepayment, error) {
	var rows []DueRepayment
	err := r.session(ctx).
		Table("loan_repayments AS r").
		Select("r.id, r.loan_id, l.loan_type, r.amount").
		Joins("JOIN employee_loans AS l ON l.id = r.loan_id").
		Where("r.school_id = ? AND r.employee_id = ?", schoolID, employeeID).
		Where("(r.year < ? OR (r.year = ? AND r.month <= ?))", year, year, month).
		Where("r.status = ? AND l.status = ?", RepaymentPending, StatusActive).
		Where(`NOT EXISTS (
			SELECT 1 FROM payroll_items AS i
			JOIN payroll_periods AS p ON p.id = i.period_id
			WHERE i.school_id = r.school_id AND i.employee_id = r.employee_id
				AND NOT (p.month = ? AND p.year = ?)
				AND p.status <> ?
				AND i.deducted_repayment_ids @> jsonb_build_array(r.id::text)
		)`, month, year, paidPeriodStatus).
		Order("r.year ASC, r.month ASC, l.start_date ASC, r.loan_id ASC, r.installment_no ASC").
		Scan(&rows).Error
	return rows, err
}

// MarkRepaymentsPaid flips pending rows to PAID and returns the distinct loan
// ids touched. Rows already paid are left alone.
func (r *repository) MarkRepaymentsPaid(ctx context.Context, schoolID string, ids []string, periodID string, paidAt time.Time) ([]string, error) {
	var loanIDs []string
	err := r.session(ctx).Raw(`
		UPDATE loan_repayments
		SET status = ?, paid_at = ?, payroll_period_id = ?, updated_at = NOW()
		WHERE school_id = ? AND id IN ? AND status = ?
		RETURNING loan_id`,
		RepaymentPaid, paidAt, periodID, schoolID, ids, RepaymentPending,
	).Scan(&loanIDs).Error
	if err != nil {
		return nil, err
	}
	return uniqueStrings(loanIDs), nil
}

func (r *repository) RefreshBalances(ctx context.Context, schoolID string, loanIDs []string) error {
	if len(loanIDs) == 0 {
		return nil
	}
	return r.session(ctx).Exec(`
		UPDATE employee_loans AS l
		SET amount_paid = p.paid,
			amount_pending = l.total_amount - p.paid,
			status = CASE WHEN l.total_amount - p.paid <= 0 THEN ? ELSE l.status END,
			updated_at = NOW()
		FROM (
			SELECT loan_id, COALESCE(SUM(amount), 0) AS paid
			FROM loan_repayments
			WHERE school_id = ? AND loan_id IN ? AND status = ?
			GROUP BY loan_id
		) AS p
		WHERE l.id = p.loan_id AND l.school_id = ?`,
		StatusClosed, schoolID, loanIDs, RepaymentPaid, schoolID,
	).Error
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
