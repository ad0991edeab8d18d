package loanerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.New(
		apperror.CodeNotFound,
		"loan not found",
		http.StatusNotFound,
	)
	ErrInvalidPrincipal = apperror.New(
		apperror.CodeInvalidInput,
		"principal amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidInterestRate = apperror.New(
		apperror.CodeInvalidInput,
		"interest rate cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidTenure = apperror.New(
		apperror.CodeInvalidInput,
		"tenure must be between 1 and 360 months",
		http.StatusBadRequest,
	)
	ErrInvalidLoanType = apperror.New(
		apperror.CodeInvalidInput,
		"loan type must be LOAN or ADVANCE",
		http.StatusBadRequest,
	)
	ErrInvalidStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid start date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrLoanNotPendingApproval = apperror.New(
		apperror.CodeInvalidState,
		"only loans pending approval can be approved",
		http.StatusBadRequest,
	)
)
