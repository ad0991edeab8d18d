package salarystructureerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrStructureInactive = apperror.New(
		apperror.CodeInvalidState,
		"salary structure is not active",
		http.StatusBadRequest,
	)
	ErrStructureNameExists = apperror.New(
		apperror.CodeConflict,
		"salary structure with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidBasicSalary = apperror.New(
		apperror.CodeInvalidInput,
		"basic salary must be greater than zero",
		http.StatusBadRequest,
	)
	ErrNegativeComponent = apperror.New(
		apperror.CodeInvalidInput,
		"salary component values cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidSchoolID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid school id",
		http.StatusBadRequest,
	)
)
