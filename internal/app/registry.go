package app

import (
	"database/sql"

	"go-payroll/internal/attendance"
	"go-payroll/internal/audit"
	"go-payroll/internal/config"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollprofile"
	"go-payroll/internal/rbac"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/statutory"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type services struct {
	structures salarystructure.Service
	profiles   payrollprofile.Service
	loans      loan.Service
	attendance attendance.Service
	payroll    payroll.Service
}

// buildServices wires the payroll domain. The API and the consumer share it so
// both run the same computation and payslip code.
func buildServices(cfg *config.Config, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client) (*services, error) {
	stat, err := statutory.FromConfig(cfg.Payroll)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	counterRepo := counter.NewRepository(gormDB)
	structureRepo := salarystructure.NewRepository(gormDB)
	profileRepo := payrollprofile.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)

	redisCache := cache.NewRedisCache(rdb)

	// --- Services ---
	structureService := salarystructure.NewService(db, structureRepo, redisCache, stat)
	profileService := payrollprofile.NewService(db, profileRepo, structureRepo, outboxRepo, auditRepo)
	loanService := loan.NewService(db, loanRepo, auditRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	payrollService := payroll.NewService(db, payrollRepo, payroll.Dependencies{
		Profiles:   profileRepo,
		Structures: structureRepo,
		Loans:      loanService,
		Attendance: attendanceService,
		Calendar:   attendanceService,
		Tax:        payroll.NewSlabTaxPolicy(stat),
		Counters:   counterRepo,
		Outbox:     outboxRepo,
		Audit:      auditRepo,
		Cache:      redisCache,
		Statutory:  stat,
		PayslipDir: cfg.App.PayslipDir,
	})

	return &services{
		structures: structureService,
		profiles:   profileService,
		loans:      loanService,
		attendance: attendanceService,
		payroll:    payrollService,
	}, nil
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	svc, err := buildServices(cfg, db, gormDB, rdb)
	if err != nil {
		return err
	}

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Handlers ---
	structureHandler := salarystructure.NewHandler(svc.structures)
	profileHandler := payrollprofile.NewHandler(svc.profiles)
	loanHandler := loan.NewHandler(svc.loans)
	attendanceHandler := attendance.NewHandler(svc.attendance)
	payrollHandler := payroll.NewHandler(svc.payroll)
	rbacHandler := rbac.NewHandler(rbacService)

	jwtSecret := cfg.App.JWTSecret

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		salarystructure.RegisterRoutes(api, structureHandler, rbacService, jwtSecret)
		payrollprofile.RegisterRoutes(api, profileHandler, rbacService, jwtSecret)
		loan.RegisterRoutes(api, loanHandler, rbacService, jwtSecret)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, jwtSecret)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, jwtSecret, rdb)
		rbac.RegisterRoutes(api, rbacHandler, jwtSecret)
	}

	return nil
}
