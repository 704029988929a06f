package ticket

import (
	"go-hrdesk/internal/middleware"
	"go-hrdesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	tickets := r.Group("/tickets")
	tickets.Use(middleware.AuthMiddleware())
	{
		tickets.POST("", middleware.Authorize(rbacService, "ticket", "create"), middleware.Idempotency(rdb), handler.Create)
		tickets.GET("/me", middleware.Authorize(rbacService, "ticket", "read_own"), handler.GetOwn)
		tickets.GET("", middleware.Authorize(rbacService, "ticket", "read_all"), handler.GetAll)
		tickets.GET("/:id", handler.GetById)
		tickets.POST("/:id/assign", middleware.Authorize(rbacService, "ticket", "assign"), handler.Assign)
		tickets.PATCH("/:id/status", middleware.Authorize(rbacService, "ticket", "update"), handler.UpdateStatus)
		tickets.POST("/:id/rating", middleware.Authorize(rbacService, "ticket", "rate"), handler.Rate)
		tickets.POST("/:id/comments", middleware.Authorize(rbacService, "ticket", "comment"), handler.AddComment)
	}
}
