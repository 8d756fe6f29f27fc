package penalty

import (
	"errors"
	"net/http"

	"campuspark/internal/shared/middleware"
	"campuspark/internal/shared/utils/response"
	"campuspark/internal/shared/utils/validation"

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

// GetAccount godoc
// @Summary      Current penalty account with its derived phase
// @Tags         penalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.StandardApiResponse
// @Router       /penalty/account [get]
func (c *Controller) GetAccount(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	view, err := c.service.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to get penalty account")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Penalty account retrieved successfully", view, nil)
}

// StartSession godoc
// @Summary      Start or resume the live overtime tracker
// @Tags         penalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.StandardApiResponse
// @Failure      422  {object}  response.StandardApiResponse
// @Router       /penalty/session [post]
func (c *Controller) StartSession(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	view, err := c.service.StartSession(ctx.Request.Context(), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to start parking session")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Parking session running", view, nil)
}

// MarkCarRemoved godoc
// @Summary      Record that the car has left the bay
// @Tags         penalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      MarkCarRemovedRequest  true  "Booking"
// @Success      200   {object}  response.StandardApiResponse
// @Failure      409   {object}  response.StandardApiResponse
// @Router       /penalty/car-removed [post]
func (c *Controller) MarkCarRemoved(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)

	var req MarkCarRemovedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	view, err := c.service.MarkCarRemoved(ctx.Request.Context(), userID, req.BookingID)
	if err != nil {
		c.respondError(ctx, err, "Failed to mark car removed")
		return
	}

	message := "Car removal recorded"
	if view.Phase == PhaseRemovedUnpaid {
		message = "Car removal recorded, penalty payment required"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, view, nil)
}

// ConfirmPayment godoc
// @Summary      Confirm the overtime penalty has been paid
// @Tags         penalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /penalty/payment [post]
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	view, err := c.service.ConfirmPayment(ctx.Request.Context(), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to confirm payment")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed", view, nil)
}

// GetStatus godoc
// @Summary      Passive penalty status for a booking
// @Tags         penalty
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId  path      string  true  "Booking ID"
// @Success      200        {object}  response.StandardApiResponse
// @Router       /penalty/status/{bookingId} [get]
func (c *Controller) GetStatus(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	status, err := c.service.GetStatus(ctx.Request.Context(), userID, ctx.Param("bookingId"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get penalty status")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Penalty status retrieved successfully", status, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	var (
		cfgErr        *ConfigurationError
		transitionErr *InvalidTransitionError
	)
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
	case errors.As(err, &cfgErr):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, message, nil, err.Error())
	case errors.As(err, &transitionErr), errors.Is(err, ErrBookingMismatch):
		response.RespondJSON(ctx, "error", http.StatusConflict, message, nil, err.Error())
	case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, message, nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
