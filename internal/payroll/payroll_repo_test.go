package payroll_test

import (
	"context"
	"testing"

	"go-payroll/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_UpsertItemRejectsClosedPeriod(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	assert.NoError(t, err)

	item := &payroll.PayrollItem{
		ID:         uuid.New(),
		SchoolID:   uuid.New(),
		PeriodID:   uuid.New(),
		EmployeeID: uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM payroll_periods\s+WHERE id = \$1 AND school_id = \$2 AND status IN \(\$3,\$4\) AND is_locked = false\s+FOR SHARE`).
		WithArgs(item.PeriodID, item.SchoolID, payroll.StatusDraft, payroll.StatusProcessing).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err = payroll.NewRepository(gdb).UpsertItem(context.Background(), item)

	assert.ErrorIs(t, err, payroll.ErrPeriodNotWritable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
