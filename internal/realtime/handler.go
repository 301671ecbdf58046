package realtime

import (
	"context"
	"net/http"
	"time"

	"campuschat/internal/auth"
	chat_redis "campuschat/internal/redis"
	"campuschat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to socket connections and runs their
// read loop. Identity comes from an optional token query parameter;
// anonymous connections are allowed. A session query parameter carries
// the rejoin key across reconnects.
type Handler struct {
	auth       *auth.Service
	hub        *Hub
	dispatcher *Dispatcher
	sessions   *SessionStore
	limiter    *chat_redis.RateLimiter
	log        *logger.Logger
}

func NewHandler(authSvc *auth.Service, hub *Hub, dispatcher *Dispatcher, sessions *SessionStore, limiter *chat_redis.RateLimiter, log *logger.Logger) *Handler {
	return &Handler{
		auth:       authSvc,
		hub:        hub,
		dispatcher: dispatcher,
		sessions:   sessions,
		limiter:    limiter,
		log:        log,
	}
}

func (h *Handler) Connect(c *gin.Context) {
	if h.limiter != nil {
		result, err := h.limiter.AllowConnect(c.Request.Context(), c.ClientIP())
		if err == nil && !result.Allowed {
			c.Status(http.StatusTooManyRequests)
			return
		}
	}

	var userID, name string
	if token := c.Query("token"); token != "" {
		claims, err := h.auth.ParseAccessToken(token)
		if err != nil {
			c.Status(http.StatusUnauthorized)
			return
		}
		userID = claims.UserID
		name = claims.Name
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	session := h.sessions.Acquire(c.Query("session"))
	client := NewClient(conn, userID, name, session)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	// Membership restores before the first frame is read, so a
	// reconnected client sees broadcasts without re-issuing joins.
	h.sessions.ReplayJoins(h.hub, client)
	go client.WriteLoop(ctx)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Logger.Warn("websocket closed unexpectedly",
					zap.String("socket_id", client.ID), zap.Error(err))
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		h.dispatcher.Dispatch(ctx, client, raw)
	}

	h.hub.Unregister(client)
}
