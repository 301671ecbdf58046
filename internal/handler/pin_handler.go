package handler

import (
	"net/http"

	"campuschat/internal/domain"
	"campuschat/internal/middleware"
	"campuschat/internal/services"
	"campuschat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type PinHandler struct {
	pins *services.PinService
}

func NewPinHandler(pins *services.PinService) *PinHandler {
	return &PinHandler{pins: pins}
}

func (h *PinHandler) List(c *gin.Context) {
	pins, err := h.pins.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to list pins", "INTERNAL_ERROR"))
		return
	}
	if pins == nil {
		pins = []domain.Pin{}
	}
	c.JSON(http.StatusOK, httpdto.PinsResponse{Pins: pins})
}

func (h *PinHandler) Pin(c *gin.Context) {
	var req httpdto.PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	claims, _ := middleware.ClaimsFromGin(c)
	pins, err := h.pins.Pin(c.Request.Context(), c.Param("id"), req.MessageID, services.Actor{
		ID:   claims.UserID,
		Name: claims.Name,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to pin message", "INTERNAL_ERROR"))
		return
	}
	c.JSON(http.StatusOK, httpdto.PinsResponse{Pins: pins})
}

func (h *PinHandler) Unpin(c *gin.Context) {
	pins, err := h.pins.Unpin(c.Request.Context(), c.Param("id"), c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to unpin message", "INTERNAL_ERROR"))
		return
	}
	if pins == nil {
		pins = []domain.Pin{}
	}
	c.JSON(http.StatusOK, httpdto.PinsResponse{Pins: pins})
}
