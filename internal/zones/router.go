package zones

import (
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupZoneRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	zones := rg.Group("/zones")
	zones.Use(middleware.JWTAuthWithConfig(cfg))
	{
		zones.GET("", controller.ListZones)                  // GET /api/v1/zones
		zones.GET("/:zoneId", controller.GetZone)            // GET /api/v1/zones/:zoneId
		zones.GET("/:zoneId/slots", controller.GetZoneSlots) // GET /api/v1/zones/:zoneId/slots
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/zones", controller.CreateZone)                       // POST /api/v1/admin/zones
		admin.POST("/zones/:zoneId/slots", controller.CreateSlots)        // POST /api/v1/admin/zones/:zoneId/slots
		admin.PATCH("/slots/:slotId/status", controller.UpdateSlotStatus) // PATCH /api/v1/admin/slots/:slotId/status
	}
}
