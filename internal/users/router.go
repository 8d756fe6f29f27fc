package users

import (
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers the profile routes
func SetupUserRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	me := rg.Group("/users/me")
	me.Use(middleware.JWTAuthWithConfig(cfg))
	{
		me.GET("", controller.GetProfile)    // GET /api/v1/users/me
		me.PUT("", controller.UpdateProfile) // PUT /api/v1/users/me
	}
}
