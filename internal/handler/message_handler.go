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

type MessageHandler struct {
	chat *services.ChatService
}

func NewMessageHandler(chat *services.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.chat.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to load history", "INTERNAL_ERROR"))
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, httpdto.MessagesResponse{Messages: messages})
}

// Create persists a message and fans it out over the socket layer, same
// as a socket send; clients merge REST and socket sources by message id.
func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	send := services.SendRequest{
		ChannelID:       c.Param("id"),
		Text:            req.Text,
		SenderID:        req.SenderID,
		SenderName:      req.SenderName,
		SenderAvatarURL: req.SenderAvatarURL,
		Priority:        domain.Priority(req.Priority),
		Context:         req.Context,
		ClientMsgID:     req.ClientMsgID,
	}
	if claims, ok := middleware.ClaimsFromGin(c); ok {
		send.SenderID = claims.UserID
		if send.SenderName == "" {
			send.SenderName = claims.Name
		}
	}

	m, err := h.chat.Send(c.Request.Context(), send)
	if err != nil {
		if errors.Is(err, chat_errors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("channelId and text are required", "INVALID_REQUEST"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("failed to send message", "INTERNAL_ERROR"))
		return
	}
	c.JSON(http.StatusCreated, httpdto.MessageResponse{Message: m})
}
