package salarystructure

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=salary_structure_repo.go -destination=mock/salary_structure_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, structure *SalaryStructure) error
	Update(ctx context.Context, structure *SalaryStructure) error
	FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]SalaryStructure, error)
	FindByID(ctx context.Context, schoolID, id string) (*SalaryStructure, error)
	FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryStructure, error)
	CountActiveProfiles(ctx context.Context, schoolID, id string) (int64, error)
	Deactivate(ctx context.Context, schoolID, id string) error
	Delete(ctx context.Context, schoolID, id string) error
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

func (r *repository) Create(ctx context.Context, structure *SalaryStructure) error {
	return r.session(ctx).Create(structure).Error
}

func (r *repository) Update(ctx context.Context, structure *SalaryStructure) error {
	return r.session(ctx).Save(structure).Error
}

func (r *repository) FindAll(ctx context.Context, schoolID string, activeOnly bool) ([]SalaryStructure, error) {
	var structures []SalaryStructure
	q := r.session(ctx).Scopes(tenant.Scope(schoolID))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&structures).Error
	return structures, err
}

func (r *repository) FindByID(ctx context.Context, schoolID, id string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&structure).Error
	if err != nil {
		return nil, err
	}
	return &structure, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := r.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		First(&structure).Error
	if err != nil {
		return nil, err
	}
	return &structure, nil
}

func (r *repository) CountActiveProfiles(ctx context.Context, schoolID, id string) (int64, error) {
	var count int64
	err := r.session(ctx).
		Table("employee_payroll_profiles").
		Scopes(tenant.Scope(schoolID)).
		Where("salary_structure_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count, err
}

func (r *repository) Deactivate(ctx context.Context, schoolID, id string) error {
	return r.session(ctx).
		Model(&SalaryStructure{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": gorm.Expr("NOW()")}).Error
}

func (r *repository) Delete(ctx context.Context, schoolID, id string) error {
	return r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Delete(&SalaryStructure{}).Error
}
