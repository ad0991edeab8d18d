package payroll

import (
	"sort"

	"go-payroll/internal/loan"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/statutory"
)

type CalcInput struct {
	Month            int
	TotalWorkingDays int
	DaysAbsent       int

	// Structure holds the full-month contractual amounts.
	Structure      salarystructure.Components
	StructureGross int64

	Overtime   int64
	Incentives int64
	Arrears    int64

	Repayments []loan.DueRepayment

	BankAccountNumber string
	BankIFSC          string
}

type CalcResult struct {
	BasicEarned   int64
	HRAEarned     int64
	DAEarned      int64
	TAEarned      int64
	MedicalEarned int64
	SpecialEarned int64
	OtherEarned   int64
	Overtime      int64
	Incentives    int64
	Arrears       int64
	GrossEarnings int64

	LossOfPay        int64
	PFEmployee       int64
	PFEmployer       int64
	ESIEmployee      int64
	ESIEmployer      int64
	ProfessionalTax  int64
	TDS              int64
	LoanDeduction    int64
	AdvanceDeduction int64

	TotalDeductions       int64
	UnrecoveredDeductions int64
	NetSalary             int64

	DaysWorked int
	DaysAbsent int

	DeductedRepaymentIDs []string

	Readiness  string
	HoldReason string
}

type Calculator struct {
	stat statutory.Config
	tax  TaxPolicy
}

func NewCalculator(stat statutory.Config, tax TaxPolicy) Calculator {
	if tax == nil {
		tax = NewSlabTaxPolicy(stat)
	}
	return Calculator{stat: stat, tax: tax}
}

// Calculate is pure: the same input always yields the same result.
func (c Calculator) Calculate(in CalcInput) (CalcResult, error) {
	if in.TotalWorkingDays <= 0 || in.DaysAbsent < 0 {
		return CalcResult{}, payrollerrors.ErrInvalidCalculation
	}
	if in.Overtime < 0 || in.Incentives < 0 || in.Arrears < 0 {
		return CalcResult{}, payrollerrors.ErrInvalidCalculation
	}

	twd := in.TotalWorkingDays
	absent := in.DaysAbsent
	if absent > twd {
		absent = twd
	}
	payable := twd - absent
	s := in.Structure

	r := CalcResult{
		BasicEarned:   s.Basic,
		HRAEarned:     s.HRA,
		DAEarned:      s.DA,
		TAEarned:      money.Prorate(s.TA, payable, twd),
		MedicalEarned: money.Prorate(s.Medical, payable, twd),
		SpecialEarned: money.Prorate(s.Special, payable, twd),
		OtherEarned:   money.Prorate(s.Other, payable, twd),
		Overtime:      in.Overtime,
		Incentives:    in.Incentives,
		Arrears:       in.Arrears,
		DaysWorked:    payable,
		DaysAbsent:    absent,
	}
	r.GrossEarnings = r.BasicEarned + r.HRAEarned + r.DAEarned + r.TAEarned +
		r.MedicalEarned + r.SpecialEarned + r.OtherEarned +
		r.Overtime + r.Incentives + r.Arrears

	lop := money.Prorate(s.BasicLinked(), absent, twd)
	basicLOP := money.Prorate(s.Basic, absent, twd)
	earnedGross := r.GrossEarnings - lop

	pfBase := money.Min(s.Basic-basicLOP, c.stat.PFWageCeiling)
	pf := money.Percent(pfBase, c.stat.PFRate)
	r.PFEmployer = pf

	var esi int64
	if in.StructureGross <= c.stat.ESIWageLimit {
		esi = money.Percent(earnedGross, c.stat.ESIEmployeeRate)
		r.ESIEmployer = money.Percent(earnedGross, c.stat.ESIEmployerRate)
	}

	pt := c.tax.ProfessionalTax(earnedGross, in.Month)
	tds := c.tax.TDS(earnedGross - pf)

	remaining := r.GrossEarnings
	take := func(amount int64) int64 {
		if amount <= 0 {
			return 0
		}
		applied := money.Min(amount, remaining)
		remaining -= applied
		r.UnrecoveredDeductions += amount - applied
		return applied
	}

	r.LossOfPay = take(lop)
	r.PFEmployee = take(pf)
	r.ESIEmployee = take(esi)
	r.ProfessionalTax = take(pt)
	r.TDS = take(tds)

	// Repayment rows are all-or-nothing so the ledger never sees a part payment.
	for _, due := range orderedRepayments(in.Repayments) {
		if due.Amount <= 0 {
			continue
		}
		if due.Amount > remaining {
			r.UnrecoveredDeductions += due.Amount
			continue
		}
		remaining -= due.Amount
		if due.LoanType == loan.TypeAdvance {
			r.AdvanceDeduction += due.Amount
		} else {
			r.LoanDeduction += due.Amount
		}
		r.DeductedRepaymentIDs = append(r.DeductedRepaymentIDs, due.ID)
	}

	r.TotalDeductions = r.LossOfPay + r.PFEmployee + r.ESIEmployee + r.ProfessionalTax +
		r.TDS + r.LoanDeduction + r.AdvanceDeduction
	r.NetSalary = r.GrossEarnings - r.TotalDeductions

	r.Readiness, r.HoldReason = readinessFor(r.NetSalary, r.UnrecoveredDeductions, in.BankAccountNumber, in.BankIFSC)
	return r, nil
}

func readinessFor(net, unrecovered int64, account, ifsc string) (string, string) {
	switch {
	case unrecovered > 0:
		return ReadinessOnHold, HoldNegativeNetClamped
	case net <= 0:
		return ReadinessOnHold, HoldZeroNet
	case account == "" || ifsc == "":
		return ReadinessOnHold, HoldMissingBankDetails
	default:
		return ReadinessReady, ""
	}
}

// orderedRepayments puts loans before advances and keeps the caller's order
// within each type.
func orderedRepayments(in []loan.DueRepayment) []loan.DueRepayment {
	out := make([]loan.DueRepayment, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return repaymentRank(out[i].LoanType) < repaymentRank(out[j].LoanType)
	})
	return out
}

func repaymentRank(loanType string) int {
	if loanType == loan.TypeAdvance {
		return 1
	}
	return 0
}

func (r CalcResult) applyTo(item *PayrollItem) {
	item.BasicEarned = r.BasicEarned
	item.HRAEarned = r.HRAEarned
	item.DAEarned = r.DAEarned
	item.TAEarned = r.TAEarned
	item.MedicalEarned = r.MedicalEarned
	item.SpecialEarned = r.SpecialEarned
	item.OtherEarned = r.OtherEarned
	item.Overtime = r.Overtime
	item.Incentives = r.Incentives
	item.Arrears = r.Arrears
	item.GrossEarnings = r.GrossEarnings
	item.PFEmployee = r.PFEmployee
	item.PFEmployer = r.PFEmployer
	item.ESIEmployee = r.ESIEmployee
	item.ESIEmployer = r.ESIEmployer
	item.ProfessionalTax = r.ProfessionalTax
	item.TDS = r.TDS
	item.LoanDeduction = r.LoanDeduction
	item.AdvanceDeduction = r.AdvanceDeduction
	item.LossOfPay = r.LossOfPay
	item.TotalDeductions = r.TotalDeductions
	item.UnrecoveredDeductions = r.UnrecoveredDeductions
	item.NetSalary = r.NetSalary
	item.DaysWorked = r.DaysWorked
	item.DaysAbsent = r.DaysAbsent
	item.DeductedRepaymentIDs = r.DeductedRepaymentIDs
	if item.ManualHold {
		item.Readiness = ReadinessOnHold
		if isRetired(item.HoldReason) {
			item.HoldReason = HoldManual
		}
		return
	}
	item.Readiness = r.Readiness
	item.HoldReason = r.HoldReason
}
