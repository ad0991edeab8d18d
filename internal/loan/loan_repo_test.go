package loan_test

import (
	"context"
	"testing"

	"go-payroll/internal/loan"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_FindDueCarriesOverdueRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	assert.NoError(t, err)

	overdue := uuid.NewString()
	current := uuid.NewString()
	mock.ExpectQuery(`(?s)FROM loan_repayments AS r JOIN employee_loans AS l ON l.id = r.loan_id.*` +
		`r\.year < \$3 OR \(r\.year = \$4 AND r\.month <= \$5\).*` +
		`NOT EXISTS.*AND p\.status <> \$10.*deducted_repayment_ids @> jsonb_build_array\(r\.id::text\).*` +
		`ORDER BY r\.year ASC, r\.month ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "loan_type", "amount"}).
			AddRow(overdue, uuid.NewString(), loan.TypeLoan, 50000).
			AddRow(current, uuid.NewString(), loan.TypeLoan, 50000))

	due, err := loan.NewRepository(gdb).FindDue(context.Background(), uuid.NewString(), uuid.NewString(), 4, 2025)

	assert.NoError(t, err)
	assert.Len(t, due, 2)
	assert.Equal(t, overdue, due[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
