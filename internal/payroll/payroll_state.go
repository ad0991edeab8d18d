package payroll

import (
	payrollerrors "go-payroll/internal/payroll/errors"
)

var transitions = map[string]string{
	StatusDraft:      StatusProcessing,
	StatusProcessing: StatusApproved,
	StatusApproved:   StatusPaid,
}

// CanTransition reports whether from moves to to in one step. Settlement may
// be confirmed again on a PAID period, which is the only self-transition.
func CanTransition(from, to string) bool {
	if from == StatusPaid && to == StatusPaid {
		return true
	}
	return transitions[from] == to
}

func checkTransition(p *PayrollPeriod, to string) error {
	if p.IsLocked {
		return payrollerrors.ErrPeriodLocked
	}
	if !CanTransition(p.Status, to) {
		return payrollerrors.ErrInvalidTransition
	}
	return nil
}

// checkMutable guards item-level changes: unlocked and still being prepared.
func checkMutable(p *PayrollPeriod) error {
	if p.IsLocked {
		return payrollerrors.ErrPeriodLocked
	}
	if p.Status != StatusDraft && p.Status != StatusProcessing {
		return payrollerrors.ErrComputeNotAllowed
	}
	return nil
}

func isIssued(status string) bool {
	return status == StatusApproved || status == StatusPaid
}
