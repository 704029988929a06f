package auth

import (
	"go-hrdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.2, 5), handler.Refresh)
		auth.POST("/password", middleware.AuthMiddleware(), middleware.RateLimitByUser(1, 3), handler.ChangePassword)
		auth.POST("/logout", handler.Logout)
	}
}
