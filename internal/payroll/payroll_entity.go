package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusDraft      = "DRAFT"
	StatusProcessing = "PROCESSING"
	StatusApproved   = "APPROVED"
	StatusPaid       = "PAID"
)

const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentProcessed  = "PROCESSED"
)

const (
	ReadinessReady  = "READY"
	ReadinessOnHold = "ON_HOLD"
)

const (
	HoldZeroNet            = "ZERO_NET"
	HoldMissingBankDetails = "MISSING_BANK_DETAILS"
	HoldNegativeNetClamped = "NEGATIVE_NET_CLAMPED"
	HoldManual             = "MANUAL"

	// set on items left over from an earlier compute whose employee is no
	// longer payable
	HoldProfileInactive   = "PROFILE_INACTIVE"
	HoldNoActiveStructure = "NO_ACTIVE_STRUCTURE"
)

const (
	AdjustmentOvertime  = "OVERTIME"
	AdjustmentIncentive = "INCENTIVE"
	AdjustmentArrears   = "ARREARS"
)

type PayrollPeriod struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_period_month,priority:1"`
	Month                 int       `gorm:"not null;uniqueIndex:uq_payroll_period_month,priority:2"`
	Year                  int       `gorm:"not null;uniqueIndex:uq_payroll_period_month,priority:3"`
	StartDate             time.Time `gorm:"type:date;not null"`
	EndDate               time.Time `gorm:"type:date;not null"`
	TotalWorkingDays      int       `gorm:"not null"`
	TotalHolidays         int       `gorm:"not null"`
	TotalWeekends         int       `gorm:"not null"`
	Status                string    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IsLocked              bool      `gorm:"not null;default:false"`
	LockedAt              *time.Time
	LockedBy              string `gorm:"type:varchar(64)"`
	LockReason            string `gorm:"type:varchar(255)"`
	UnlockedAt            *time.Time
	UnlockedBy            string `gorm:"type:varchar(64)"`
	UnlockReason          string `gorm:"type:varchar(255)"`
	ProcessedAt           *time.Time
	ApprovedAt            *time.Time
	ApprovedBy            string `gorm:"type:varchar(64)"`
	PaidAt                *time.Time
	SettlementConfirmedAt *time.Time
	SettlementConfirmedBy string `gorm:"type:varchar(64)"`
	BankTransferReference string `gorm:"type:varchar(120)"`
	BankSlipGeneratedAt   *time.Time
	TotalGross            int64  `gorm:"not null;default:0"`
	TotalDeductions       int64  `gorm:"not null;default:0"`
	TotalNet              int64  `gorm:"not null;default:0"`
	EmployeeCount         int    `gorm:"not null;default:0"`
	ReadyCount            int    `gorm:"not null;default:0"`
	OnHoldCount           int    `gorm:"not null;default:0"`
	CreatedBy             string `gorm:"type:varchar(64)"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// Label renders the period as "March 2025".
func (p PayrollPeriod) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

type PayrollItem struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID              uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_item_employee,priority:1"`
	EmployeeID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_item_employee,priority:2"`
	EmployeeName          string    `gorm:"type:varchar(150);not null"`
	BankName              string    `gorm:"type:varchar(120)"`
	BankAccountNumber     string    `gorm:"type:varchar(34)"`
	BankIFSC              string    `gorm:"column:bank_ifsc;type:varchar(11)"`
	BasicEarned           int64     `gorm:"not null;default:0"`
	HRAEarned             int64     `gorm:"column:hra_earned;not null;default:0"`
	DAEarned              int64     `gorm:"column:da_earned;not null;default:0"`
	TAEarned              int64     `gorm:"column:ta_earned;not null;default:0"`
	MedicalEarned         int64     `gorm:"not null;default:0"`
	SpecialEarned         int64     `gorm:"not null;default:0"`
	OtherEarned           int64     `gorm:"not null;default:0"`
	Overtime              int64     `gorm:"not null;default:0"`
	Incentives            int64     `gorm:"not null;default:0"`
	Arrears               int64     `gorm:"not null;default:0"`
	GrossEarnings         int64     `gorm:"not null;default:0"`
	PFEmployee            int64     `gorm:"column:pf_employee;not null;default:0"`
	PFEmployer            int64     `gorm:"column:pf_employer;not null;default:0"`
	ESIEmployee           int64     `gorm:"column:esi_employee;not null;default:0"`
	ESIEmployer           int64     `gorm:"column:esi_employer;not null;default:0"`
	ProfessionalTax       int64     `gorm:"not null;default:0"`
	TDS                   int64     `gorm:"column:tds;not null;default:0"`
	LoanDeduction         int64     `gorm:"not null;default:0"`
	AdvanceDeduction      int64     `gorm:"not null;default:0"`
	LossOfPay             int64     `gorm:"not null;default:0"`
	TotalDeductions       int64     `gorm:"not null;default:0"`
	UnrecoveredDeductions int64     `gorm:"not null;default:0"`
	NetSalary             int64     `gorm:"not null;default:0"`
	DaysWorked            int       `gorm:"not null;default:0"`
	DaysAbsent            int       `gorm:"not null;default:0"`
	PaymentStatus         string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Readiness             string    `gorm:"type:varchar(20);not null;default:'READY'"`
	HoldReason            string    `gorm:"type:varchar(64)"`
	ManualHold            bool      `gorm:"not null;default:false"`

	DeductedRepaymentIDs datatypes.JSONSlice[string] `gorm:"column:deducted_repayment_ids;type:jsonb"`

	ComputedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PayrollItem) TableName() string {
	return "payroll_items"
}

func (i PayrollItem) HasBankDetails() bool {
	return i.BankAccountNumber != "" && i.BankIFSC != ""
}

type PayrollAdjustment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_adjustment_kind,priority:1"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_adjustment_kind,priority:2"`
	Kind       string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_payroll_adjustment_kind,priority:3"`
	Amount     int64     `gorm:"not null"`
	Note       string    `gorm:"type:varchar(255)"`
	CreatedBy  string    `gorm:"type:varchar(64)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PayrollAdjustment) TableName() string {
	return "payroll_adjustments"
}

// PayslipLine is one earnings or deductions row on a payslip.
type PayslipLine struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type Payslip struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SchoolID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PeriodID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_item"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PayslipNumber   string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_payslip_number"`
	EmployeeName    string    `gorm:"type:varchar(150);not null"`
	PeriodLabel     string    `gorm:"type:varchar(32);not null"`

	Earnings   datatypes.JSONSlice[PayslipLine] `gorm:"type:jsonb"`
	Deductions datatypes.JSONSlice[PayslipLine] `gorm:"type:jsonb"`

	GrossEarnings   int64     `gorm:"not null"`
	TotalDeductions int64     `gorm:"not null"`
	NetSalary       int64     `gorm:"not null"`
	DaysWorked      int       `gorm:"not null"`
	DaysAbsent      int       `gorm:"not null"`
	BankAccount     string    `gorm:"type:varchar(34)"`
	GeneratedAt     time.Time `gorm:"not null"`
	CreatedAt       time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}
