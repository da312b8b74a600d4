package leave

import (
	"go-paie/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", handler.Create)
		leaves.GET("/me", handler.GetMine)
		leaves.GET("", middleware.RoleMiddleware("admin", "hr"), handler.GetAll)
		leaves.GET("/:id", handler.GetById)
		leaves.PATCH("/:id/approve", middleware.RoleMiddleware("admin", "hr"), handler.Approve)
		leaves.PATCH("/:id/reject", middleware.RoleMiddleware("admin", "hr"), handler.Reject)
		leaves.PATCH("/:id/cancel", handler.Cancel)
	}
}
