package app

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/audit"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollprofile"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/counter"

	"gorm.io/gorm"
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&salarystructure.SalaryStructure{},
		&payrollprofile.EmployeePayrollProfile{},
		&loan.EmployeeLoan{},
		&loan.LoanRepayment{},
		&attendance.StaffAttendance{},
		&attendance.SchoolCalendarDay{},
		&payroll.PayrollPeriod{},
		&payroll.PayrollItem{},
		&payroll.PayrollAdjustment{},
		&payroll.Payslip{},
		&audit.PayrollAuditLog{},
		&counter.SchoolCounter{},
		&kafka.OutboxEventRecord{},
	)
}
