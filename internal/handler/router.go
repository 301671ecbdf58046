package handler

import (
	"net/http"

	"campuschat/internal/auth"
	"campuschat/internal/middleware"
	"campuschat/internal/realtime"
	chat_redis "campuschat/internal/redis"
	"campuschat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Auth      *auth.Service
	Channels  *ChannelHandler
	Messages  *MessageHandler
	Pins      *PinHandler
	Presence  *PresenceHandler
	Socket    *realtime.Handler
	Limiter   *chat_redis.RateLimiter
	Health    gin.HandlerFunc
	Log       *logger.Logger
	DebugMode bool
}

// NewRouter assembles the gin engine: REST boundary, socket upgrade and
// middleware chain.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(deps.Log))

	if deps.Health != nil {
		r.GET("/healthz", deps.Health)
	}
	r.GET("/ws", deps.Socket.Connect)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Auth, false))
	{
		api.GET("/channels", deps.Channels.List)
		api.GET("/channels/:id/messages", deps.Messages.List)
		api.POST("/channels/:id/messages",
			middleware.MessageRateLimitMiddleware(deps.Limiter), deps.Messages.Create)
		api.GET("/channels/:id/pins", deps.Pins.List)
		api.GET("/channels/:id/presence", deps.Presence.Snapshot)
	}

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(deps.Auth, true))
	{
		authed.POST("/channels",
			middleware.RequireRole(auth.RoleTeacher, auth.RoleAdmin), deps.Channels.Provision)
		authed.DELETE("/channels/:id", deps.Channels.Delete)
		authed.POST("/channels/:id/pins", deps.Pins.Pin)
		authed.DELETE("/channels/:id/pins/:messageId", deps.Pins.Unpin)
	}

	r.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	return r
}
