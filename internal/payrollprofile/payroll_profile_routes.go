package payrollprofile

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
	profiles := r.Group("/payroll-profiles")
	profiles.Use(middleware.AuthMiddleware(jwtSecret))
	profiles.Use(middleware.ContextLogger(zap.L()))
	{
		profiles.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionRead),
			handler.GetAll,
		)
		profiles.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionRead),
			handler.GetByID,
		)
		profiles.PUT("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionManage),
			handler.Upsert,
		)
		profiles.POST("/me/pending",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionSelf),
			handler.SubmitMine,
		)
		profiles.POST("/:id/pending/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionApprove),
			handler.ApprovePending,
		)
		profiles.POST("/:id/pending/reject",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollProfile, rbac.ActionApprove),
			handler.RejectPending,
		)
	}
}
