package handler

import (
	"errors"
	"net/http"

	"campuschat/internal/domain"
	"campuschat/internal/middleware"
	"campuschat/internal/services"
	"campuschat/internal/transport/httpdto"
	chat_errors "campuschat/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	directory *services.Directory
}

func NewChannelHandler(directory *services.Directory) *ChannelHandler {
	return &ChannelHandler{directory: directory}
}

func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.directory.ListChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to list channels", "INTERNAL_ERROR"))
		return
	}
	if channels == nil {
		channels = []domain.Channel{}
	}
	c.JSON(http.StatusOK, httpdto.ChannelsResponse{Channels: channels})
}

// Provision is the enrollment collaborator's entry point for creating
// curated channels ahead of first use.
func (h *ChannelHandler) Provision(c *gin.Context) {
	var req httpdto.ProvisionChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	claims, _ := middleware.ClaimsFromGin(c)
	ch, err := h.directory.EnsureChannel(c.Request.Context(), req.ID, domain.Channel{
		Name:      req.Name,
		Topic:     req.Topic,
		Kind:      domain.ChannelKind(req.Kind),
		CreatedBy: claims.UserID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.ChannelResponse{Channel: ch})
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	claims, ok := middleware.ClaimsFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	err := h.directory.DeleteGroupChannel(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	switch {
	case errors.Is(err, chat_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("channel not found", "NOT_FOUND"))
	case errors.Is(err, chat_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to delete channel", "INTERNAL_ERROR"))
	default:
		c.Status(http.StatusNoContent)
	}
}
