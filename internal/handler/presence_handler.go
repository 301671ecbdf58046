package handler

import (
	"net/http"

	chat_redis "campuschat/internal/redis"
	"campuschat/internal/services"

	"github.com/gin-gonic/gin"
)

// PresenceHandler serves a cold-start snapshot of a channel's ephemeral
// state. The redis mirror is preferred so the snapshot survives a server
// restart; the in-memory tracker is the fallback.
type PresenceHandler struct {
	presence *services.PresenceService
	mirror   *chat_redis.PresenceStore
}

func NewPresenceHandler(presence *services.PresenceService, mirror *chat_redis.PresenceStore) *PresenceHandler {
	return &PresenceHandler{presence: presence, mirror: mirror}
}

func (h *PresenceHandler) Snapshot(c *gin.Context) {
	channelID := c.Param("id")

	if h.mirror != nil {
		online, err1 := h.mirror.GetOnlineUsers(c.Request.Context(), channelID)
		typing, err2 := h.mirror.GetTypingUsers(c.Request.Context(), channelID)
		if err1 == nil && err2 == nil {
			if online == nil {
				online = []string{}
			}
			if typing == nil {
				typing = []string{}
			}
			c.JSON(http.StatusOK, services.PresenceSnapshot{
				ChannelID:   channelID,
				OnlineUsers: online,
				TypingUsers: typing,
			})
			return
		}
	}

	c.JSON(http.StatusOK, h.presence.Snapshot(channelID))
}
