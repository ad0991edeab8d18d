package payrollprofile

import "time"

type UpsertProfileRequest struct {
	EmployeeID        string `json:"employee_id" binding:"required,uuid"`
	EmployeeName      string `json:"employee_name" binding:"required,max=150"`
	Email             string `json:"email" binding:"omitempty,email"`
	SalaryStructureID string `json:"salary_structure_id" binding:"required,uuid"`
	PAN               string `json:"pan" binding:"omitempty,len=10"`
	Aadhar            string `json:"aadhar" binding:"omitempty,len=12,numeric"`
	UAN               string `json:"uan" binding:"omitempty,max=12"`
	ESINumber         string `json:"esi_number" binding:"omitempty,max=17"`
	BankName          string `json:"bank_name" binding:"omitempty,max=100"`
	BankAccountNumber string `json:"bank_account_number" binding:"omitempty,max=34"`
	BankIFSC          string `json:"bank_ifsc" binding:"omitempty,len=11"`
	IsActive          *bool  `json:"is_active"`
}

type SubmitPendingDetailsRequest struct {
	Bank *BankDetails `json:"bank"`
	IDs  *IDDetails   `json:"ids"`
}

type RejectPendingDetailsRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type PendingDetailsResponse struct {
	Bank            *BankDetails `json:"bank,omitempty"`
	IDs             *IDDetails   `json:"ids,omitempty"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
}

type ProfileResponse struct {
	ID                string                 `json:"id"`
	EmployeeID        string                 `json:"employee_id"`
	EmployeeName      string                 `json:"employee_name"`
	Email             string                 `json:"email,omitempty"`
	SalaryStructureID string                 `json:"salary_structure_id,omitempty"`
	PAN               string                 `json:"pan,omitempty"`
	Aadhar            string                 `json:"aadhar,omitempty"`
	UAN               string                 `json:"uan,omitempty"`
	ESINumber         string                 `json:"esi_number,omitempty"`
	BankName          string                 `json:"bank_name,omitempty"`
	BankAccountNumber string                 `json:"bank_account_number,omitempty"`
	BankIFSC          string                 `json:"bank_ifsc,omitempty"`
	HasBankDetails    bool                   `json:"has_bank_details"`
	IsActive          bool                   `json:"is_active"`
	Pending           PendingDetailsResponse `json:"pending"`
}
