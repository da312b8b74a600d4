package attendance

import (
	"go-paie/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/check-in", handler.CheckIn)
		attendances.POST("/check-out", handler.CheckOut)
		attendances.GET("/me", handler.GetMine)
		attendances.GET("", middleware.RoleMiddleware("admin", "hr"), handler.GetAll)
		attendances.POST("/mark-absences", middleware.RoleMiddleware("admin", "hr"), handler.MarkAbsences)
		attendances.POST("/backfill-absences", middleware.RoleMiddleware("admin", "hr"), handler.BackfillAbsences)
	}
}
