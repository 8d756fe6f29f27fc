package penalty

import (
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPenaltyRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller, stream *StreamHandler) {
	penalty := rg.Group("/penalty")
	penalty.Use(middleware.JWTAuthWithConfig(cfg))
	{
		penalty.GET("/account", controller.GetAccount)          // GET /api/v1/penalty/account
		penalty.POST("/session", controller.StartSession)       // POST /api/v1/penalty/session
		penalty.POST("/car-removed", controller.MarkCarRemoved) // POST /api/v1/penalty/car-removed
		penalty.POST("/payment", controller.ConfirmPayment)     // POST /api/v1/penalty/payment
		penalty.GET("/status/:bookingId", controller.GetStatus) // GET /api/v1/penalty/status/:bookingId
		penalty.GET("/stream", stream.Stream)                   // GET /api/v1/penalty/stream (WebSocket)
	}
}
