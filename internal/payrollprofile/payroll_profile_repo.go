package payrollprofile

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_profile_repo.go -destination=mock/payroll_profile_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, profile *EmployeePayrollProfile) error
	Save(ctx context.Context, profile *EmployeePayrollProfile) error
	FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]EmployeePayrollProfile, error)
	FindByID(ctx context.Context, schoolID, id string) (*EmployeePayrollProfile, error)
	FindByIDForUpdate(ctx context.Context, schoolID, id string) (*EmployeePayrollProfile, error)
	FindByEmployeeID(ctx context.Context, schoolID, employeeID string) (*EmployeePayrollProfile, error)
	FindByEmployeeIDs(ctx context.Context, schoolID string, employeeIDs []string) ([]EmployeePayrollProfile, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) session(ctx context.Context) *gorm.DB {
	return dbtx.Session(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, profile *EmployeePayrollProfile) error {
	return r.session(ctx).Create(profile).Error
}

func (r *repository) Save(ctx context.Context, profile *EmployeePayrollProfile) error {
	return r.session(ctx).Save(profile).Error
}

// FindAll orders by employee name then id so payroll runs are reproducible.
func (r *repository) FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]EmployeePayrollProfile, error) {
	var profiles []EmployeePayrollProfile
	q := r.session(ctx).Scopes(tenant.Scope(schoolID))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("employee_name ASC, employee_id ASC").Find(&profiles).Error
	return profiles, err
}

func (r *repository) FindByID(ctx context.Context, schoolID, id string) (*EmployeePayrollProfile, error) {
	var profile EmployeePayrollProfile
	if err := r.session(ctx).Scopes(tenant.Scope(schoolID)).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*EmployeePayrollProfile, error) {
	var profile EmployeePayrollProfile
	err := r.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindByEmployeeID(ctx context.Context, schoolID, employeeID string) (*EmployeePayrollProfile, error) {
	var profile EmployeePayrollProfile
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id = ?", employeeID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindByEmployeeIDs(ctx context.Context, schoolID string, employeeIDs []string) ([]EmployeePayrollProfile, error) {
	var profiles []EmployeePayrollProfile
	if len(employeeIDs) == 0 {
		return profiles, nil
	}
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id IN ?", employeeIDs).
		Order("employee_name ASC").
		Find(&profiles).Error
	return profiles, err
}
