package loan

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware(jwtSecret))
	loans.Use(middleware.ContextLogger(zap.L()))
	{
		loans.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLoan, rbac.ActionRead),
			handler.List,
		)
		loans.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLoan, rbac.ActionRead),
			handler.GetByID,
		)
		loans.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLoan, rbac.ActionManage),
			handler.Create,
		)
		loans.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLoan, rbac.ActionApprove),
			handler.Approve,
		)
	}
}
