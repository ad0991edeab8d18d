package salarystructure

import "github.com/shopspring/decimal"

// Request amounts are rupees with up to two decimals.
type CreateSalaryStructureRequest struct {
	Name             string          `json:"name" binding:"required,max=120"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	HRAPercent       decimal.Decimal `json:"hra_percent"`
	DAPercent        decimal.Decimal `json:"da_percent"`
	TAAmount         decimal.Decimal `json:"ta_amount"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
}

type UpdateSalaryStructureRequest = CreateSalaryStructureRequest

type SalaryStructureResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	HRAPercent       decimal.Decimal `json:"hra_percent"`
	DAPercent        decimal.Decimal `json:"da_percent"`
	TAAmount         decimal.Decimal `json:"ta_amount"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	EmployerPF       decimal.Decimal `json:"employer_pf"`
	EmployerESI      decimal.Decimal `json:"employer_esi"`
	CTC              decimal.Decimal `json:"ctc"`
	IsActive         bool            `json:"is_active"`
}

type DeactivateResponse struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
