package salarystructure

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
	structures := r.Group("/salary-structures")
	structures.Use(middleware.AuthMiddleware(jwtSecret))
	structures.Use(middleware.ContextLogger(zap.L()))
	{
		structures.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalaryStructure, rbac.ActionRead),
			handler.GetAll,
		)
		structures.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalaryStructure, rbac.ActionRead),
			handler.GetByID,
		)
		structures.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalaryStructure, rbac.ActionManage),
			handler.Create,
		)
		structures.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalaryStructure, rbac.ActionManage),
			handler.Update,
		)
		structures.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceSalaryStructure, rbac.ActionManage),
			handler.Deactivate,
		)
	}
}
