package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
	rdb *redis.Client,
) {
	periods := r.Group("/payroll-periods")
	periods.Use(middleware.AuthMiddleware(jwtSecret))
	periods.Use(middleware.ContextLogger(zap.L()))
	{
		periods.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionRead),
			handler.ListPeriods,
		)
		periods.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionRead),
			handler.GetPeriod,
		)
		periods.GET("/:id/summary",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionRead),
			handler.GetSummary,
		)
		periods.GET("/:id/items",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionRead),
			handler.ListItems,
		)
		periods.GET("/:id/bank-slip",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceBankSlip, rbac.ActionRead),
			handler.BankSlip,
		)

		periods.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionManage),
			handler.CreatePeriod,
		)
		periods.POST("/:id/process",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionManage),
			handler.Process,
		)
		periods.POST("/:id/compute",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionManage),
			handler.Compute,
		)
		periods.POST("/:id/items/:employeeId/compute",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionManage),
			handler.ComputeEmployee,
		)
		periods.POST("/:id/adjustments",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionManage),
			handler.UpsertAdjustment,
		)
		periods.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionApprove),
			handler.Approve,
		)
		periods.POST("/:id/settle",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionSettle),
			handler.Settle,
		)
		periods.POST("/:id/lock",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionLock),
			handler.Lock,
		)
		periods.POST("/:id/unlock",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollPeriod, rbac.ActionLock),
			handler.Unlock,
		)
		periods.POST("/:id/payslips",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionManage),
			handler.RequestPayslips,
		)
	}

	items := r.Group("/payroll-items")
	items.Use(middleware.AuthMiddleware(jwtSecret))
	items.Use(middleware.ContextLogger(zap.L()))
	{
		items.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionRead),
			handler.GetItem,
		)
		items.POST("/:id/hold",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionManage),
			handler.Hold,
		)
		items.POST("/:id/release",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollItem, rbac.ActionManage),
			handler.Release,
		)
		items.POST("/:id/payslip",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionManage),
			handler.GeneratePayslip,
		)
	}

	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware(jwtSecret))
	payslips.Use(middleware.ContextLogger(zap.L()))
	{
		payslips.GET("/:id/pdf",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead),
			handler.DownloadPayslip,
		)
	}
}
