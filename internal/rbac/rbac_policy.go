package rbac

import "go-payroll/internal/domain"

// Resources guarded by RBACAuthorize.
const (
	ResourceSalaryStructure = "salary_structure"
	ResourcePayrollProfile  = "payroll_profile"
	ResourceLoan            = "loan"
	ResourcePayrollPeriod   = "payroll_period"
	ResourcePayrollItem     = "payroll_item"
	ResourcePayslip         = "payslip"
	ResourceBankSlip        = "bank_slip"
	ResourceAttendance      = "attendance"
)

const (
	ActionRead    = "read"
	ActionManage  = "manage"
	ActionApprove = "approve"
	ActionSettle  = "settle"
	ActionLock    = "lock"
	ActionSelf    = "self"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type policyRule struct {
	role, resource, action string
}

var defaultPolicy = []policyRule{
	{domain.RoleAccountant, ResourceSalaryStructure, ActionRead},
	{domain.RoleAccountant, ResourceSalaryStructure, ActionManage},
	{domain.RoleAccountant, ResourcePayrollProfile, ActionRead},
	{domain.RoleAccountant, ResourcePayrollProfile, ActionManage},
	{domain.RoleAccountant, ResourceLoan, ActionRead},
	{domain.RoleAccountant, ResourceLoan, ActionManage},
	{domain.RoleAccountant, ResourcePayrollPeriod, ActionRead},
	{domain.RoleAccountant, ResourcePayrollPeriod, ActionManage},
	{domain.RoleAccountant, ResourcePayrollPeriod, ActionSettle},
	{domain.RoleAccountant, ResourcePayrollItem, ActionRead},
	{domain.RoleAccountant, ResourcePayrollItem, ActionManage},
	{domain.RoleAccountant, ResourcePayslip, ActionRead},
	{domain.RoleAccountant, ResourcePayslip, ActionManage},
	{domain.RoleAccountant, ResourceBankSlip, ActionRead},
	{domain.RoleAccountant, ResourceAttendance, ActionRead},
	{domain.RoleAccountant, ResourceAttendance, ActionManage},

	{domain.RolePrincipal, "*", ActionRead},
	{domain.RolePrincipal, ResourcePayrollPeriod, ActionApprove},
	{domain.RolePrincipal, ResourcePayrollPeriod, ActionLock},
	{domain.RolePrincipal, ResourcePayrollProfile, ActionApprove},
	{domain.RolePrincipal, ResourceLoan, ActionApprove},
	{domain.RolePrincipal, ResourceAttendance, ActionManage},

	{domain.RoleStaff, ResourcePayrollProfile, ActionSelf},
	{domain.RoleStaff, ResourcePayslip, ActionSelf},
}

// Admin inherits both office roles.
var defaultGrouping = [][2]string{
	{domain.RoleAdmin, domain.RoleAccountant},
	{domain.RoleAdmin, domain.RolePrincipal},
}
