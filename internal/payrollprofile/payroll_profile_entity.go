package payrollprofile

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EmployeePayrollProfile struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SchoolID               uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_profile_employee,priority:1"`
	EmployeeID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_profile_employee,priority:2"`
	EmployeeName           string         `gorm:"type:varchar(150);not null"`
	Email                  string         `gorm:"type:varchar(150)"`
	SalaryStructureID      *uuid.UUID     `gorm:"type:uuid;index"`
	PAN                    string         `gorm:"column:pan;type:varchar(10)"`
	Aadhar                 string         `gorm:"type:varchar(12)"`
	UAN                    string         `gorm:"column:uan;type:varchar(12)"`
	ESINumber              string         `gorm:"column:esi_number;type:varchar(17)"`
	BankName               string         `gorm:"type:varchar(100)"`
	BankAccountNumber      string         `gorm:"type:varchar(34)"`
	BankIFSC               string         `gorm:"column:bank_ifsc;type:varchar(11)"`
	IsActive               bool           `gorm:"not null;default:true;index"`
	PendingBankDetails     datatypes.JSON `gorm:"type:jsonb"`
	PendingIDDetails       datatypes.JSON `gorm:"column:pending_id_details;type:jsonb"`
	PendingSubmittedAt     *time.Time
	PendingApprovedAt      *time.Time
	PendingRejectedAt      *time.Time
	PendingRejectionReason string `gorm:"type:varchar(500)"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (EmployeePayrollProfile) TableName() string {
	return "employee_payroll_profiles"
}

type BankDetails struct {
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`
}

type IDDetails struct {
	PAN       string `json:"pan,omitempty"`
	Aadhar    string `json:"aadhar,omitempty"`
	UAN       string `json:"uan,omitempty"`
	ESINumber string `json:"esi_number,omitempty"`
}

// HasBankDetails reports whether salary can be transferred.
func (p EmployeePayrollProfile) HasBankDetails() bool {
	return strings.TrimSpace(p.BankAccountNumber) != "" && strings.TrimSpace(p.BankIFSC) != ""
}

func (p EmployeePayrollProfile) HasPending() bool {
	return p.PendingSubmittedAt != nil && (len(p.PendingBankDetails) > 0 || len(p.PendingIDDetails) > 0)
}

func (p EmployeePayrollProfile) pendingBank() (*BankDetails, error) {
	if len(p.PendingBankDetails) == 0 {
		return nil, nil
	}
	var d BankDetails
	if err := json.Unmarshal(p.PendingBankDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (p EmployeePayrollProfile) pendingIDs() (*IDDetails, error) {
	if len(p.PendingIDDetails) == 0 {
		return nil, nil
	}
	var d IDDetails
	if err := json.Unmarshal(p.PendingIDDetails, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
