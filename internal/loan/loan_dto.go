package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are rupees; StartDate is YYYY-MM-DD.
type CreateLoanRequest struct {
	EmployeeID      string          `json:"employee_id" binding:"required,uuid"`
	LoanType        string          `json:"loan_type" binding:"required,oneof=LOAN ADVANCE"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TenureMonths    int             `json:"tenure_months"`
	StartDate       string          `json:"start_date" binding:"required"`
	Reason          string          `json:"reason" binding:"max=255"`
}

type RepaymentResponse struct {
	ID            string          `json:"id"`
	InstallmentNo int             `json:"installment_no"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PeriodID      string          `json:"payroll_period_id,omitempty"`
}

type LoanResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	LoanType        string              `json:"loan_type"`
	PrincipalAmount decimal.Decimal     `json:"principal_amount"`
	InterestRate    decimal.Decimal     `json:"interest_rate"`
	TenureMonths    int                 `json:"tenure_months"`
	StartDate       string              `json:"start_date"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	EMIAmount       decimal.Decimal     `json:"emi_amount"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	AmountPending   decimal.Decimal     `json:"amount_pending"`
	Status          string              `json:"status"`
	Reason          string              `json:"reason,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy      string              `json:"approved_by,omitempty"`
	Repayments      []RepaymentResponse `json:"repayments,omitempty"`
}
