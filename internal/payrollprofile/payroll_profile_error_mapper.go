package payrollprofile

import (
	"errors"
	"strings"

	payrollprofileerrors "go-payroll/internal/payrollprofile/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollprofileerrors.ErrProfileNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_profile_employee" {
			return payrollprofileerrors.ErrProfileExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_profile_employee") {
		return payrollprofileerrors.ErrProfileExists
	}

	return err
}
