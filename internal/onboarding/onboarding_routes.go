package onboarding

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
	onboardings := r.Group("/onboarding")
	onboardings.Use(middleware.AuthMiddleware())
	{
		onboardings.POST("/invite", middleware.Authorize(rbacService, "onboarding", "invite"), handler.Invite)
		onboardings.POST("/details", middleware.Authorize(rbacService, "onboarding", "submit"), handler.SubmitDetails)
		onboardings.GET("/pending", middleware.Authorize(rbacService, "onboarding", "review"), handler.GetPending)
		onboardings.POST("/:id/review", middleware.Authorize(rbacService, "onboarding", "review"), handler.Review)
		onboardings.GET("/:id/record", middleware.Authorize(rbacService, "onboarding", "read"), handler.GetRecord)
	}
}
