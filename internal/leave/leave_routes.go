package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.Authorize(rbacService, "leave", "apply"), middleware.Idempotency(rdb), handler.Apply)
		leaves.GET("/me", middleware.Authorize(rbacService, "leave", "read_own"), handler.GetOwn)
		leaves.GET("/summary", middleware.Authorize(rbacService, "leave", "read_own"), handler.GetSummary)
		leaves.GET("/pending", middleware.Authorize(rbacService, "leave", "read_all"), handler.GetPending)
		leaves.GET("/:id", handler.GetById)
		leaves.POST("/:id/decision", middleware.Authorize(rbacService, "leave", "decide"), handler.Decide)
		leaves.POST("/:id/cancel", middleware.Authorize(rbacService, "leave", "cancel"), handler.Cancel)
	}
}
