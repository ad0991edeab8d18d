package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	UpsertMany(ctx context.Context, rows []StaffAttendance) error
	FindByEmployee(ctx context.Context, schoolID, employeeID string, from, to time.Time) ([]StaffAttendance, error)
	CountByStatus(ctx context.Context, schoolID, employeeID string, from, to time.Time) (map[string]int, error)
	UpsertCalendarDay(ctx context.Context, day *SchoolCalendarDay) error
	FindCalendarDays(ctx context.Context, schoolID string, from, to time.Time) ([]SchoolCalendarDay, error)
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

func (r *repository) UpsertMany(ctx context.Context, rows []StaffAttendance) error {
	if len(rows) == 0 {
		return nil
	}
	return r.session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school_id"}, {Name: "employee_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "note", "marked_by", "updated_at"}),
		}).
		CreateInBatches(rows, 200).Error
}

func (r *repository) FindByEmployee(ctx context.Context, schoolID, employeeID string, from, to time.Time) ([]StaffAttendance, error) {
	var rows []StaffAttendance
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatus(ctx context.Context, schoolID, employeeID string, from, to time.Time) (map[string]int, error) {
	var counts []statusCount
	err := r.session(ctx).
		Model(&StaffAttendance{}).
		Scopes(tenant.Scope(schoolID)).
		Select("status, COUNT(*) AS total").
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Status] = c.Total
	}
	return out, nil
}

func (r *repository) UpsertCalendarDay(ctx context.Context, day *SchoolCalendarDay) error {
	return r.session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"day_type", "description", "updated_at"}),
		}).
		Create(day).Error
}

func (r *repository) FindCalendarDays(ctx context.Context, schoolID string, from, to time.Time) ([]SchoolCalendarDay, error) {
	var days []SchoolCalendarDay
	err := r.session(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("date BETWEEN ? AND ?", from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}
