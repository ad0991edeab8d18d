package attendance

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
	staff := r.Group("/staff-attendances")
	staff.Use(middleware.AuthMiddleware(jwtSecret))
	staff.Use(middleware.ContextLogger(zap.L()))
	{
		staff.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead),
			handler.List,
		)
		staff.GET("/summary",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead),
			handler.Summary,
		)
		staff.PUT("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionManage),
			handler.Mark,
		)
		staff.PUT("/bulk",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionManage),
			handler.BulkMark,
		)
	}

	calendar := r.Group("/school-calendar")
	calendar.Use(middleware.AuthMiddleware(jwtSecret))
	calendar.Use(middleware.ContextLogger(zap.L()))
	{
		calendar.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead),
			handler.ListCalendarDays,
		)
		calendar.PUT("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionManage),
			handler.SetCalendarDay,
		)
	}
}
