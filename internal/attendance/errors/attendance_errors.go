package attendanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of PRESENT, LATE, PAID_LEAVE, ABSENT, UNPAID_LEAVE",
		http.StatusBadRequest,
	)
	ErrInvalidDayType = apperror.New(
		apperror.CodeInvalidInput,
		"day_type must be one of WORKING_DAY, HOLIDAY, WEEKEND",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must not be after to",
		http.StatusBadRequest,
	)
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"attendance cannot be marked for a future date",
		http.StatusBadRequest,
	)
)
