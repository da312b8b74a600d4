package app

import (
	"database/sql"

	"go-paie/internal/attendance"
	"go-paie/internal/auth"
	"go-paie/internal/employee"
	"go-paie/internal/leave"
	"go-paie/internal/messaging/kafka"
	"go-paie/internal/middleware"
	"go-paie/internal/overtime"
	"go-paie/internal/payroll"
	payrollconfig "go-paie/internal/payroll/config"
	"go-paie/internal/sentiment"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	cfg := payrollconfig.FromEnv()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	overtimeRepo := overtime.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	sentimentRepo := sentiment.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo)
	deriver := attendance.NewDeriver(attendanceRepo, employeeRepo, leaveRepo)
	employeeService := employee.NewService(db, employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo)
	overtimeService := overtime.NewService(db, overtimeRepo, employeeRepo, cfg)
	payrollService := payroll.NewServiceWithOutbox(db, payrollRepo, employeeRepo, attendanceRepo, overtimeRepo, outboxRepo, cfg)
	sentimentService := sentiment.NewServiceWithOutbox(db, sentimentRepo, employeeRepo, attendanceRepo, leaveRepo, outboxRepo, cfg)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService, deriver)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	overtimeHandler := overtime.NewHandler(overtimeService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	sentimentHandler := sentiment.NewHandlerWithRedis(sentimentService, rdb)

	// --- Routes ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(20, 40))
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		employee.RegisterRoutes(api, employeeHandler)
		leave.RegisterRoutes(api, leaveHandler)
		overtime.RegisterRoutes(api, overtimeHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		sentiment.RegisterRoutes(api, sentimentHandler, rdb)
	}

	return nil
}
