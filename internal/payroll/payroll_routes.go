package payroll

import (
	"go-paie/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/calculate",
			middleware.RoleMiddleware("admin", "hr"),
			middleware.Idempotency(rdb),
			handler.Calculate,
		)
		payrolls.POST("/generate",
			middleware.RoleMiddleware("admin", "hr"),
			middleware.Idempotency(rdb),
			handler.GenerateMonthly,
		)
		payrolls.GET("/payslips", middleware.RoleMiddleware("admin", "hr"), handler.GetAll)
		payrolls.GET("/payslips/me", handler.GetMine)
		payrolls.GET("/payslips/:id", handler.GetById)
		payrolls.PATCH("/payslips/:id/pay", middleware.RoleMiddleware("admin", "hr"), handler.MarkPaid)
		payrolls.GET("/reports/monthly/:month", middleware.RoleMiddleware("admin", "hr"), handler.MonthlyReport)
		payrolls.GET("/reports/cnss/:month", middleware.RoleMiddleware("admin", "hr"), handler.CNSSReport)
	}
}
