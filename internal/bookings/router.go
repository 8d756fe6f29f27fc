package bookings

import (
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", controller.CreateBooking)            // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		bookings.PUT("/:id", controller.RescheduleBooking)     // PUT /api/v1/bookings/:id
		bookings.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
		bookings.GET("/:id/receipt", controller.GetReceipt)    // GET /api/v1/bookings/:id/receipt
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuthWithConfig(cfg))
	{
		users.GET("/me/bookings", controller.GetUserBookings) // GET /api/v1/users/me/bookings
	}
}

// Route definitions for reference:
//
// RESERVATION
// POST   /api/v1/bookings                 - Reserve a slot
// Request body: { "slot_id": "zone-a-a1", "date": "2026-10-19", "time_in": "09:00", "time_out": "11:30" }
//
// MANAGEMENT
// GET    /api/v1/bookings/:id             - Get a booking
// PUT    /api/v1/bookings/:id             - Reschedule before the start time
// POST   /api/v1/bookings/:id/cancel      - Cancel while the session is SCHEDULED
// GET    /api/v1/bookings/:id/receipt     - Receipt for a non-cancelled booking
//
// SESSIONS
// GET    /api/v1/users/me/bookings        - Active and history lists
