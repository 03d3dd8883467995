package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/config"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/db"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/handlers"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/middleware"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/observability"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/presence"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/rabbitmq"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/repositories"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/telemetry"
)

const serviceName = "messenger-backend"

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	shutdownTracing, err := observability.InitTracing(context.Background(), serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	emitter := telemetry.NewEventEmitter(publisher, serviceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	contactRepo := repositories.NewContactRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	tracker := presence.New(cfg.PresenceWindow)

	authHandler := handlers.NewAuthHandler(userRepo, emitter)
	messagesHandler := handlers.NewMessagesHandler(userRepo, contactRepo, chatRepo, messageRepo, tracker, emitter)

	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.NoMethod(handlers.MethodNotAllowed)

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(observability.HTTPMetricsMiddleware())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}

	authMiddleware := middleware.Auth(userRepo)

	router.POST("/auth", authHandler.Handle)
	router.GET("/messages", authMiddleware, messagesHandler.Get)
	router.POST("/messages", authMiddleware, messagesHandler.Post)

	router.GET("/metrics", observability.MetricsHandler())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
