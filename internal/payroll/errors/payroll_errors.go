package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidSchoolID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid school id",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be between 2000 and 2100",
		http.StatusBadRequest,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeDuplicatePeriod,
		"payroll period already exists for this month",
		http.StatusConflict,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll period not found",
		http.StatusNotFound,
	)
	ErrPeriodLocked = apperror.New(
		apperror.CodePeriodLocked,
		"payroll period is locked",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll period status transition",
		http.StatusBadRequest,
	)
	ErrPeriodNotPaid = apperror.New(
		apperror.CodeInvalidState,
		"only paid periods can be locked",
		http.StatusBadRequest,
	)
	ErrPeriodAlreadyLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is already locked",
		http.StatusBadRequest,
	)
	ErrPeriodNotLocked = apperror.New(
		apperror.CodeInvalidState,
		"payroll period is not locked",
		http.StatusBadRequest,
	)
	ErrUnlockReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required to unlock a period",
		http.StatusBadRequest,
	)
	ErrNoItemsToApprove = apperror.New(
		apperror.CodeInvalidState,
		"payroll period has no computed items",
		http.StatusBadRequest,
	)
	ErrComputeNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"items can only be computed while the period is DRAFT or PROCESSING",
		http.StatusBadRequest,
	)
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll item not found",
		http.StatusNotFound,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"active payroll profile not found for employee",
		http.StatusNotFound,
	)
	ErrNoActiveStructure = apperror.New(
		apperror.CodeInvalidState,
		"employee has no active salary structure",
		http.StatusBadRequest,
	)
	ErrHoldReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required to hold an item",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustmentKind = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment kind must be OVERTIME, INCENTIVE or ARREARS",
		http.StatusBadRequest,
	)
	ErrInvalidAdjustmentAmount = apperror.New(
		apperror.CodeInvalidInput,
		"adjustment amount cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidCalculation = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll calculation input",
		http.StatusBadRequest,
	)
	ErrPayslipPeriodNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"payslips are issued only for approved or paid periods",
		http.StatusBadRequest,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrBankSlipNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"bank slip requires an approved or paid period",
		http.StatusBadRequest,
	)
	ErrInvalidBankSlipFormat = apperror.New(
		apperror.CodeInvalidInput,
		"format must be csv, excel or json",
		http.StatusBadRequest,
	)
	ErrBankSlipAllZeroSalary = apperror.New(
		apperror.CodeInvalidState,
		"no bank transfers: every pending item has zero net salary",
		http.StatusBadRequest,
	)
	ErrBankSlipAllMissingBank = apperror.New(
		apperror.CodeInvalidState,
		"no bank transfers: every payable item is missing bank account or IFSC",
		http.StatusBadRequest,
	)
	ErrBankSlipZeroOrMissingBank = apperror.New(
		apperror.CodeInvalidState,
		"no bank transfers: every pending item has zero net salary or is missing bank account or IFSC",
		http.StatusBadRequest,
	)
	ErrBankSlipNoReadyEmployees = apperror.New(
		apperror.CodeInvalidState,
		"no bank transfers: no employees are ready for payment",
		http.StatusBadRequest,
	)
	ErrSettlementNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"settlement requires an approved or paid period",
		http.StatusBadRequest,
	)
)
