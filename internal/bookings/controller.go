package bookings

import (
	"errors"
	"net/http"

	"campuspark/internal/penalty"
	"campuspark/internal/shared/middleware"
	"campuspark/internal/shared/utils/response"
	"campuspark/internal/shared/utils/validation"
	"campuspark/internal/users"
	"campuspark/internal/zones"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validation.New()}
}

// CreateBooking godoc
// @Summary      Reserve a parking slot
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateBookingRequest  true  "Booking"
// @Success      201   {object}  response.StandardApiResponse
// @Failure      400   {object}  response.StandardApiResponse
// @Failure      409   {object}  response.StandardApiResponse
// @Router       /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	booking, err := c.service.Reserve(ctx.Request.Context(), userID, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to reserve slot")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Slot reserved successfully", booking, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// RescheduleBooking godoc
// @Summary      Move a booking that has not started yet
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Booking ID"
// @Param        body  body      RescheduleBookingRequest  true  "New window"
// @Success      200   {object}  response.StandardApiResponse
// @Failure      409   {object}  response.StandardApiResponse
// @Router       /bookings/{id} [put]
func (c *Controller) RescheduleBooking(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req RescheduleBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	booking, err := c.service.Reschedule(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to reschedule booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking rescheduled successfully", booking, nil)
}

// CancelBooking godoc
// @Summary      Cancel a booking before it runs into overtime
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /bookings/{id}/cancel [post]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	booking, err := c.service.Cancel(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel booking")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// GetReceipt handles GET /api/v1/bookings/:id/receipt
func (c *Controller) GetReceipt(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	receipt, err := c.service.GetReceipt(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get receipt")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Receipt retrieved successfully", receipt, nil)
}

// GetUserBookings handles GET /api/v1/users/me/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	sessions, err := c.service.ListSessions(ctx.Request.Context(), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to get bookings")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", sessions, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	var (
		detailsErr    *DetailsError
		cfgErr        *penalty.ConfigurationError
		transitionErr *penalty.InvalidTransitionError
		writeErr      *penalty.PersistenceWriteError
	)
	switch {
	case errors.Is(err, penalty.ErrAuthenticationRequired):
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrNoReceipt),
		errors.Is(err, zones.ErrSlotNotFound),
		errors.Is(err, zones.ErrZoneNotFound),
		errors.Is(err, users.ErrUserNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, message, nil, err.Error())
	case IsWindowError(err),
		errors.As(err, &detailsErr),
		errors.Is(err, ErrOKUSlotRequired),
		errors.Is(err, ErrOKUBayRestricted):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, err.Error())
	case errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrActiveBookingExists),
		errors.Is(err, ErrOutstandingPenalty),
		errors.Is(err, ErrNotReschedulable),
		errors.Is(err, ErrBookingClosed),
		errors.Is(err, penalty.ErrBookingMismatch),
		errors.As(err, &transitionErr):
		response.RespondJSON(ctx, "error", http.StatusConflict, message, nil, err.Error())
	case errors.As(err, &cfgErr):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, message, nil, err.Error())
	case errors.As(err, &writeErr):
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, message, nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
