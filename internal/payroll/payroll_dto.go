package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePeriodRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type LockPeriodRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// EmployeeIDs narrows a recompute; empty means every active profile.
type ComputeRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

type SettlementRequest struct {
	BankTransferReference string `json:"bank_transfer_reference" binding:"max=120"`
}

type HoldItemRequest struct {
	Reason string `json:"reason" binding:"max=64"`
}

// Amount is rupees.
type AdjustmentRequest struct {
	EmployeeID string          `json:"employee_id" binding:"required,uuid"`
	Kind       string          `json:"kind" binding:"required,oneof=OVERTIME INCENTIVE ARREARS"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" binding:"max=255"`
}

type PeriodResponse struct {
	ID                    string          `json:"id"`
	Month                 int             `json:"month"`
	Year                  int             `json:"year"`
	Label                 string          `json:"label"`
	StartDate             string          `json:"start_date"`
	EndDate               string          `json:"end_date"`
	TotalWorkingDays      int             `json:"total_working_days"`
	TotalHolidays         int             `json:"total_holidays"`
	TotalWeekends         int             `json:"total_weekends"`
	Status                string          `json:"status"`
	IsLocked              bool            `json:"is_locked"`
	LockedAt              *time.Time      `json:"locked_at,omitempty"`
	LockedBy              string          `json:"locked_by,omitempty"`
	LockReason            string          `json:"lock_reason,omitempty"`
	UnlockedAt            *time.Time      `json:"unlocked_at,omitempty"`
	UnlockedBy            string          `json:"unlocked_by,omitempty"`
	UnlockReason          string          `json:"unlock_reason,omitempty"`
	ProcessedAt           *time.Time      `json:"processed_at,omitempty"`
	ApprovedAt            *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy            string          `json:"approved_by,omitempty"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	SettlementConfirmedAt *time.Time      `json:"settlement_confirmed_at,omitempty"`
	SettlementConfirmedBy string          `json:"settlement_confirmed_by,omitempty"`
	BankTransferReference string          `json:"bank_transfer_reference,omitempty"`
	BankSlipGeneratedAt   *time.Time      `json:"bank_slip_generated_at,omitempty"`
	TotalGross            decimal.Decimal `json:"total_gross"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	TotalNet              decimal.Decimal `json:"total_net"`
}

type SummaryResponse struct {
	PeriodID        string          `json:"period_id"`
	Status          string          `json:"status"`
	IsLocked        bool            `json:"is_locked"`
	EmployeeCount   int             `json:"employee_count"`
	ReadyCount      int             `json:"ready_count"`
	OnHoldCount     int             `json:"on_hold_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

type ItemResponse struct {
	ID                    string          `json:"id"`
	PeriodID              string          `json:"period_id"`
	EmployeeID            string          `json:"employee_id"`
	EmployeeName          string          `json:"employee_name"`
	BankName              string          `json:"bank_name,omitempty"`
	BankAccountNumber     string          `json:"bank_account_number,omitempty"`
	BankIFSC              string          `json:"bank_ifsc,omitempty"`
	BasicEarned           decimal.Decimal `json:"basic_earned"`
	HRAEarned             decimal.Decimal `json:"hra_earned"`
	DAEarned              decimal.Decimal `json:"da_earned"`
	TAEarned              decimal.Decimal `json:"ta_earned"`
	MedicalEarned         decimal.Decimal `json:"medical_earned"`
	SpecialEarned         decimal.Decimal `json:"special_earned"`
	OtherEarned           decimal.Decimal `json:"other_earned"`
	Overtime              decimal.Decimal `json:"overtime"`
	Incentives            decimal.Decimal `json:"incentives"`
	Arrears               decimal.Decimal `json:"arrears"`
	GrossEarnings         decimal.Decimal `json:"gross_earnings"`
	PFEmployee            decimal.Decimal `json:"pf_employee"`
	PFEmployer            decimal.Decimal `json:"pf_employer"`
	ESIEmployee           decimal.Decimal `json:"esi_employee"`
	ESIEmployer           decimal.Decimal `json:"esi_employer"`
	ProfessionalTax       decimal.Decimal `json:"professional_tax"`
	TDS                   decimal.Decimal `json:"tds"`
	LoanDeduction         decimal.Decimal `json:"loan_deduction"`
	AdvanceDeduction      decimal.Decimal `json:"advance_deduction"`
	LossOfPay             decimal.Decimal `json:"loss_of_pay"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	UnrecoveredDeductions decimal.Decimal `json:"unrecovered_deductions"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	DaysWorked            int             `json:"days_worked"`
	DaysAbsent            int             `json:"days_absent"`
	PaymentStatus         string          `json:"payment_status"`
	Readiness             string          `json:"readiness"`
	HoldReason            string          `json:"hold_reason,omitempty"`
	DeductedRepaymentIDs  []string        `json:"deducted_repayment_ids"`
	ComputedAt            time.Time       `json:"computed_at"`
}

const (
	ResultComputed = "COMPUTED"
	ResultFailed   = "FAILED"
	ResultSkipped  = "SKIPPED"
)

type ItemResult struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	ItemID       string `json:"item_id,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// BatchResult reports per-employee outcomes of a batch; one failure never
// aborts the others.
type BatchResult struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Results   []ItemResult `json:"results"`
}

func (b *BatchResult) add(r ItemResult) {
	switch r.Status {
	case ResultComputed:
		b.Succeeded++
	case ResultFailed:
		b.Failed++
	case ResultSkipped:
		b.Skipped++
	}
	b.Results = append(b.Results, r)
}

type ProcessResponse struct {
	Period PeriodResponse `json:"period"`
	Batch  BatchResult    `json:"batch"`
}

type AdjustmentResponse struct {
	ID         string          `json:"id"`
	PeriodID   string          `json:"period_id"`
	EmployeeID string          `json:"employee_id"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type SettlementResponse struct {
	PeriodID              string          `json:"period_id"`
	Status                string          `json:"status"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	ProcessedItems        int             `json:"processed_items"`
	SettledRepayments     int             `json:"settled_repayments"`
	TotalNet              decimal.Decimal `json:"total_net"`
	BankTransferReference string          `json:"bank_transfer_reference,omitempty"`
}

type PayslipLineResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type PayslipResponse struct {
	ID              string                `json:"id"`
	PayslipNumber   string                `json:"payslip_number"`
	PeriodID        string                `json:"period_id"`
	ItemID          string                `json:"item_id"`
	EmployeeID      string                `json:"employee_id"`
	EmployeeName    string                `json:"employee_name"`
	PeriodLabel     string                `json:"period_label"`
	Earnings        []PayslipLineResponse `json:"earnings"`
	Deductions      []PayslipLineResponse `json:"deductions"`
	GrossEarnings   decimal.Decimal       `json:"gross_earnings"`
	TotalDeductions decimal.Decimal       `json:"total_deductions"`
	NetSalary       decimal.Decimal       `json:"net_salary"`
	DaysWorked      int                   `json:"days_worked"`
	DaysAbsent      int                   `json:"days_absent"`
	BankAccount     string                `json:"bank_account,omitempty"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

type PayslipRequestResponse struct {
	PeriodID string `json:"period_id"`
	Queued   bool   `json:"queued"`
}
