package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_period_month" {
			return payrollerrors.ErrDuplicatePeriod
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_period_month") {
		return payrollerrors.ErrDuplicatePeriod
	}

	return err
}

func mapPeriodError(err error) error {
	return mapRepositoryError(err, payrollerrors.ErrPeriodNotFound)
}

func mapItemError(err error) error {
	return mapRepositoryError(err, payrollerrors.ErrItemNotFound)
}
