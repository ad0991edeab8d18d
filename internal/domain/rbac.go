package domain

// Roles carried in the access token.
const (
	RoleAdmin      = "ADMIN"
	RoleAccountant = "ACCOUNTANT"
	RolePrincipal  = "PRINCIPAL"
	RoleStaff      = "STAFF"
)

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	SchoolID string `json:"school_id" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
