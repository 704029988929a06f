package calendar

import (
	"go-hrdesk/internal/middleware"
	"go-hrdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.Authorize(rbacService, "holiday", "read"), handler.GetAll)
		holidays.POST("", middleware.Authorize(rbacService, "holiday", "create"), handler.Create)
		holidays.DELETE("/:id", middleware.Authorize(rbacService, "holiday", "delete"), handler.Delete)
	}
}
