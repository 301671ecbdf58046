package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campuschat/internal/auth"
	"campuschat/internal/config"
	"campuschat/internal/handler"
	"campuschat/internal/realtime"
	chat_redis "campuschat/internal/redis"
	"campuschat/internal/repository"
	"campuschat/internal/services"
	"campuschat/pkg/database"
	"campuschat/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == "production" {
		mode = logger.ProductionMode
	}
	log := logger.New(mode)
	logger.SetGlobalLogger(log)
	defer func() { _ = log.Logger.Sync() }()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	channelRepo := repository.NewChannelRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	pinRepo := repository.NewPinRepository(pool)

	if os.Getenv("SEED_CHANNELS") == "true" {
		if err := database.Seed(ctx, channelRepo, nil); err != nil {
			log.Logger.Fatal("seed failed", zap.Error(err))
		}
	}

	redisClient := chat_redis.NewClient(cfg.Redis)
	defer func() { _ = redisClient.Close() }()

	typingTTL := time.Duration(cfg.Realtime.TypingTTLSeconds) * time.Second
	presenceTTL := time.Duration(cfg.Realtime.PresenceTTLSeconds) * time.Second
	presenceMirror := chat_redis.NewPresenceStore(redisClient, typingTTL, presenceTTL)
	rateLimiter := chat_redis.NewRateLimiter(redisClient, chat_redis.DefaultRateLimitConfig())

	hub := realtime.NewHub(log)
	sessions := realtime.NewSessionStore(0)
	go sessions.Run(ctx.Done())

	directory := services.NewDirectory(channelRepo)
	chat := services.NewChatService(messageRepo, hub, log)
	pins := services.NewPinService(pinRepo, messageRepo, hub, log)
	presence := services.NewPresenceService(hub, presenceMirror, log, typingTTL, presenceTTL)

	authSvc := auth.NewService(cfg.Auth)
	relay := realtime.NewCallRelay(hub, log)
	dispatcher := realtime.NewDispatcher(hub, chat, pins, presence, relay, log)
	socketHandler := realtime.NewHandler(authSvc, hub, dispatcher, sessions, rateLimiter, log)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:      authSvc,
		Channels:  handler.NewChannelHandler(directory),
		Messages:  handler.NewMessageHandler(chat),
		Pins:      handler.NewPinHandler(pins),
		Presence:  handler.NewPresenceHandler(presence, presenceMirror),
		Socket:    socketHandler,
		Limiter:   rateLimiter,
		Health:    healthHandler(pool.Ping, redisClient),
		Log:       log,
		DebugMode: cfg.Server.Environment != "production",
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Infof("starting server on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Infof("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func healthHandler(pingDB func(context.Context) error, redisClient *goredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok"}
		code := http.StatusOK
		if err := pingDB(ctx); err != nil {
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
