package counter

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"

	"gorm.io/gorm"
)

const TypePayslipNumber = "payslip_number"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, schoolID string, counterType string) (int64, error)
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

func (r *repository) GetNextValue(ctx context.Context, schoolID string, counterType string) (int64, error) {
	var nextValue int64

	// Atomic upsert keeps numbers gapless per school/type under concurrent requests.
	err := dbtx.Session(ctx, r.db, r.tx).Raw(`
		INSERT INTO school_counters (school_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (school_id, counter_type) DO UPDATE
		SET last_value = school_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, schoolID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// SchoolCounter exists for migrations only.
type SchoolCounter struct {
	SchoolID    string `gorm:"type:uuid;primaryKey"`
	CounterType string `gorm:"type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   sql.NullTime
}
