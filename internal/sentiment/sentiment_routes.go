package sentiment

import (
	"go-paie/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	sentiments := r.Group("/sentiment")
	sentiments.Use(middleware.AuthMiddleware())
	{
		sentiments.POST("/generate",
			middleware.RoleMiddleware("admin", "hr"),
			middleware.Idempotency(rdb),
			handler.GenerateMonthly,
		)
		sentiments.GET("", middleware.RoleMiddleware("admin", "hr"), handler.GetAll)
		sentiments.GET("/alerts", middleware.RoleMiddleware("admin", "hr"), handler.GetAlerts)
		sentiments.GET("/me", handler.GetMine)
	}
}
