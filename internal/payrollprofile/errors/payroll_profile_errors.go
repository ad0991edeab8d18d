package payrollprofileerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll profile not found",
		http.StatusNotFound,
	)
	ErrProfileExists = apperror.New(
		apperror.CodeConflict,
		"payroll profile already exists for this employee",
		http.StatusConflict,
	)
	ErrStructureUnavailable = apperror.New(
		apperror.CodeInvalidInput,
		"salary structure does not exist or is inactive",
		http.StatusBadRequest,
	)
	ErrNoPendingDetails = apperror.New(
		apperror.CodeInvalidState,
		"no pending details to review",
		http.StatusBadRequest,
	)
	ErrEmptySubmission = apperror.New(
		apperror.CodeInvalidInput,
		"bank details or identity details are required",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidIFSC = apperror.New(
		apperror.CodeInvalidInput,
		"invalid IFSC code",
		http.StatusBadRequest,
	)
	ErrInvalidPAN = apperror.New(
		apperror.CodeInvalidInput,
		"invalid PAN",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
)
