package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeLoan    = "LOAN"
	TypeAdvance = "ADVANCE"
)

const (
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusActive          = "ACTIVE"
	StatusClosed          = "CLOSED"
)

const (
	RepaymentPending = "PENDING"
	RepaymentPaid    = "PAID"
)

type EmployeeLoan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SchoolID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanType        string          `gorm:"type:varchar(10);not null"`
	PrincipalAmount int64           `gorm:"not null"`
	InterestRate    decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	TenureMonths    int             `gorm:"not null"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	TotalAmount     int64           `gorm:"not null"`
	EMIAmount       int64           `gorm:"column:emi_amount;not null"`
	AmountPaid      int64           `gorm:"not null;default:0"`
	AmountPending   int64           `gorm:"not null"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	Reason          string          `gorm:"type:varchar(255)"`
	ApprovedAt      *time.Time
	ApprovedBy      string `gorm:"type:varchar(64)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (EmployeeLoan) TableName() string {
	return "employee_loans"
}

type LoanRepayment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SchoolID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	LoanID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_loan_installment,priority:1"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_repayment_due,priority:1"`
	InstallmentNo   int        `gorm:"not null;uniqueIndex:uq_loan_installment,priority:2"`
	Month           int        `gorm:"not null;index:idx_repayment_due,priority:2"`
	Year            int        `gorm:"not null;index:idx_repayment_due,priority:3"`
	Amount          int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(10);not null"`
	PaidAt          *time.Time
	PayrollPeriodID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (LoanRepayment) TableName() string {
	return "loan_repayments"
}

// DueRepayment is what payroll deducts for one employee in one month.
type DueRepayment struct {
	ID       string `json:"id"`
	LoanID   string `json:"loan_id"`
	LoanType string `json:"loan_type"`
	Amount   int64  `json:"amount"`
}
