package salarystructure

import (
	"go-payroll/internal/shared/money"
	"go-payroll/internal/shared/statutory"
)

// Components are the full-month contractual amounts of a structure, in paise.
type Components struct {
	Basic   int64
	HRA     int64
	DA      int64
	TA      int64
	Medical int64
	Special int64
	Other   int64
}

func (c Components) Gross() int64 {
	return c.Basic + c.HRA + c.DA + c.TA + c.Medical + c.Special + c.Other
}

// BasicLinked is the part of pay that is reduced by loss of pay.
func (c Components) BasicLinked() int64 {
	return c.Basic + c.HRA + c.DA
}

type Breakdown struct {
	Components
	GrossSalary int64
	EmployerPF  int64
	EmployerESI int64
	CTC         int64
}

func (s SalaryStructure) Components() Components {
	return Components{
		Basic:   s.BasicSalary,
		HRA:     money.Percent(s.BasicSalary, s.HRAPercent),
		DA:      money.Percent(s.BasicSalary, s.DAPercent),
		TA:      s.TAAmount,
		Medical: s.MedicalAllowance,
		Special: s.SpecialAllowance,
		Other:   s.OtherAllowances,
	}
}

// Derive computes gross and employer cost. Employer PF uses the monthly basic
// capped at the PF wage ceiling; employer ESI applies only while gross is
// within the ESI wage limit.
func Derive(s SalaryStructure, stat statutory.Config) Breakdown {
	c := s.Components()
	gross := c.Gross()

	pf := money.Percent(money.Min(c.Basic, stat.PFWageCeiling), stat.PFRate)

	var esi int64
	if gross <= stat.ESIWageLimit {
		esi = money.Percent(gross, stat.ESIEmployerRate)
	}

	return Breakdown{
		Components:  c,
		GrossSalary: gross,
		EmployerPF:  pf,
		EmployerESI: esi,
		CTC:         gross + pf + esi,
	}
}

func (s *SalaryStructure) applyDerived(stat statutory.Config) {
	b := Derive(*s, stat)
	s.GrossSalary = b.GrossSalary
	s.EmployerPF = b.EmployerPF
	s.EmployerESI = b.EmployerESI
	s.CTC = b.CTC
}
