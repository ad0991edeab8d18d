package salarystructure

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryStructure is a reusable pay template. Money columns are paise; the
// derived columns are recomputed on every write.
type SalaryStructure struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SchoolID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_salary_structure_name,priority:1"`
	Name             string          `gorm:"type:varchar(120);not null;uniqueIndex:uq_salary_structure_name,priority:2"`
	BasicSalary      int64           `gorm:"not null"`
	HRAPercent       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	DAPercent        decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	TAAmount         int64           `gorm:"not null;default:0"`
	MedicalAllowance int64           `gorm:"not null;default:0"`
	SpecialAllowance int64           `gorm:"not null;default:0"`
	OtherAllowances  int64           `gorm:"not null;default:0"`
	GrossSalary      int64           `gorm:"not null"`
	EmployerPF       int64           `gorm:"not null;default:0"`
	EmployerESI      int64           `gorm:"not null;default:0"`
	CTC              int64           `gorm:"column:ctc;not null"`
	IsActive         bool            `gorm:"not null;default:true;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}
