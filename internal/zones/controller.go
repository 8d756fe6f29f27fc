package zones

import (
	"errors"
	"net/http"

	"campuspark/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// ListZones handles GET /api/v1/zones
func (c *Controller) ListZones(ctx *gin.Context) {
	zones, err := c.service.ListZones(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get zones", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Zones retrieved successfully", zones, nil)
}

func (c *Controller) GetZone(ctx *gin.Context) {
	zone, err := c.service.GetZone(ctx.Request.Context(), ctx.Param("zoneId"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get zone")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Zone retrieved successfully", zone, nil)
}

func (c *Controller) GetZoneSlots(ctx *gin.Context) {
	slots, err := c.service.GetZoneSlots(ctx.Request.Context(), ctx.Param("zoneId"))
	if err != nil {
		c.respondError(ctx, err, "Failed to get slots")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Slots retrieved successfully", slots, nil)
}

func (c *Controller) CreateZone(ctx *gin.Context) {
	var req CreateZoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	zone, err := c.service.CreateZone(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create zone")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Zone created successfully", zone, nil)
}

func (c *Controller) CreateSlots(ctx *gin.Context) {
	var req CreateSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	slots, err := c.service.CreateSlots(ctx.Request.Context(), ctx.Param("zoneId"), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create slots")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Slots created successfully", slots, nil)
}

func (c *Controller) UpdateSlotStatus(ctx *gin.Context) {
	var req UpdateSlotStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	slot, err := c.service.UpdateSlotStatus(ctx.Request.Context(), ctx.Param("slotId"), req.Status)
	if err != nil {
		c.respondError(ctx, err, "Failed to update slot")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Slot updated successfully", slot, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrZoneNotFound), errors.Is(err, ErrSlotNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, message, nil, err.Error())
	case errors.Is(err, ErrZoneExists):
		response.RespondJSON(ctx, "error", http.StatusConflict, message, nil, err.Error())
	case errors.Is(err, ErrInvalidSlotType), errors.Is(err, ErrInvalidSlotStatus):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
