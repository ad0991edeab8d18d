package rbac_test

import (
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/rbac"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRBACService_Enforce(t *testing.T) {
	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)

	service := rbac.NewService(enforcer, zap.NewNop())

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"accountant settles", domain.RoleAccountant, rbac.ResourcePayrollPeriod, rbac.ActionSettle, true},
		{"accountant cannot approve", domain.RoleAccountant, rbac.ResourcePayrollPeriod, rbac.ActionApprove, false},
		{"principal approves", domain.RolePrincipal, rbac.ResourcePayrollPeriod, rbac.ActionApprove, true},
		{"principal reads anything", domain.RolePrincipal, rbac.ResourceBankSlip, rbac.ActionRead, true},
		{"principal cannot manage structures", domain.RolePrincipal, rbac.ResourceSalaryStructure, rbac.ActionManage, false},
		{"admin inherits accountant", domain.RoleAdmin, rbac.ResourceLoan, rbac.ActionManage, true},
		{"admin inherits principal", domain.RoleAdmin, rbac.ResourcePayrollPeriod, rbac.ActionLock, true},
		{"staff self service", domain.RoleStaff, rbac.ResourcePayrollProfile, rbac.ActionSelf, true},
		{"staff cannot read periods", domain.RoleStaff, rbac.ResourcePayrollPeriod, rbac.ActionRead, false},
		{"unknown role", "GUEST", rbac.ResourcePayslip, rbac.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := service.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				SchoolID: "school-1",
				Resource: tc.resource,
				Action:   tc.action,
			})

			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
