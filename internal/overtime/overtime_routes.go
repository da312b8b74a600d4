package overtime

import (
	"go-paie/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	entries := r.Group("/overtime")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.POST("", handler.Create)
		entries.GET("/me", handler.GetMine)
		entries.GET("", middleware.RoleMiddleware("admin", "hr"), handler.GetAll)
		entries.GET("/:id", handler.GetById)
		entries.PATCH("/:id/approve", middleware.RoleMiddleware("admin", "hr"), handler.Approve)
		entries.PATCH("/:id/reject", middleware.RoleMiddleware("admin", "hr"), handler.Reject)
		entries.PATCH("/:id/cancel", handler.Cancel)
	}
}
