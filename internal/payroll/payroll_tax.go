package payroll

import (
	"go-payroll/internal/shared/statutory"
)

// TaxPolicy supplies the state professional tax and monthly TDS.
type TaxPolicy interface {
	ProfessionalTax(taxableGross int64, month int) int64
	TDS(taxable int64) int64
}

// SlabTaxPolicy reads both taxes from slab tables. February may carry a
// different top-slab PT amount so the annual total lands on the statutory cap.
type SlabTaxPolicy struct {
	PT             statutory.Slabs
	PTFebruaryLast int64
	TDSSlabs       statutory.Slabs
}

func NewSlabTaxPolicy(stat statutory.Config) SlabTaxPolicy {
	return SlabTaxPolicy{
		PT:             stat.PTSlabs,
		PTFebruaryLast: stat.PTFebruaryLast,
		TDSSlabs:       stat.TDSSlabs,
	}
}

func (p SlabTaxPolicy) ProfessionalTax(taxableGross int64, month int) int64 {
	if taxableGross <= 0 || len(p.PT) == 0 {
		return 0
	}
	amount := p.PT.Lookup(taxableGross)
	top := p.PT[len(p.PT)-1]
	if month == 2 && p.PTFebruaryLast > 0 && amount > 0 && amount == top.Amount {
		return p.PTFebruaryLast
	}
	return amount
}

func (p SlabTaxPolicy) TDS(taxable int64) int64 {
	if taxable <= 0 {
		return 0
	}
	return p.TDSSlabs.Lookup(taxable)
}
