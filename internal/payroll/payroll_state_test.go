package payroll_test

import (
	"testing"

	"go-payroll/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{payroll.StatusDraft, payroll.StatusProcessing, true},
		{payroll.StatusProcessing, payroll.StatusApproved, true},
		{payroll.StatusApproved, payroll.StatusPaid, true},
		{payroll.StatusPaid, payroll.StatusPaid, true},
		{payroll.StatusDraft, payroll.StatusApproved, false},
		{payroll.StatusDraft, payroll.StatusPaid, false},
		{payroll.StatusProcessing, payroll.StatusPaid, false},
		{payroll.StatusApproved, payroll.StatusProcessing, false},
		{payroll.StatusPaid, payroll.StatusDraft, false},
		{payroll.StatusProcessing, payroll.StatusProcessing, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.want, payroll.CanTransition(tc.from, tc.to))
		})
	}
}
