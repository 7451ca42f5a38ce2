package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sohwakmo/cucumbermarket-backend/config"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/controller"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	"github.com/sohwakmo/cucumbermarket-backend/internal/broker"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/sohwakmo/cucumbermarket-backend/internal/event"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
	"github.com/sohwakmo/cucumbermarket-backend/internal/router"
	"github.com/sohwakmo/cucumbermarket-backend/internal/scheduler"
	"github.com/sohwakmo/cucumbermarket-backend/internal/storage"
	ws "github.com/sohwakmo/cucumbermarket-backend/internal/websocket"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting Cucumber Market Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}

	// 채팅 브로커: Redis가 설정되어 있으면 인스턴스 간 중계, 아니면 프로세스 내부
	var chatBroker broker.Broker = broker.NewMemoryBroker()
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, chat relay stays in-process", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			chatBroker = broker.NewRedisBroker(redis.GetClient())
			defer redis.Close()
		}
	}
	defer chatBroker.Close()

	var publisher event.Publisher = event.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaPublisher, err := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Warn("Kafka unavailable, catalog events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			publisher = kafkaPublisher
		}
	}
	defer publisher.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	memberRepo := repository.NewMemberRepository(db.GetDB())
	interestedRepo := repository.NewInterestedRepository(db.GetDB())

	// Initialize services
	policy := service.CatalogPolicy{
		DeletePenalty:  cfg.Catalog.DeletePenalty,
		GradeFloor:     cfg.Catalog.GradeFloor,
		LikeCountFloor: cfg.Catalog.LikeCountFloor,
	}
	productService := service.NewProductService(db.GetDB(), productRepo, memberRepo, interestedRepo, store, publisher, policy)
	wishlistService := service.NewWishlistService(db.GetDB(), interestedRepo, productRepo, memberRepo, policy.LikeCountFloor)
	mypageService := service.NewMypageService(memberRepo, store)
	chatService := service.NewChatService(chatBroker, cfg.Chat.WelcomeMessage)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	if err := hub.Subscribe(ctx, chatBroker); err != nil {
		logger.Fatal("Failed to subscribe chat hub", err)
	}

	likeScheduler := scheduler.NewLikeCountScheduler(productService, cfg.Catalog.ReconcileCron)
	if err := likeScheduler.Start(); err != nil {
		logger.Fatal("Failed to start like count scheduler", err)
	}
	defer likeScheduler.Stop()

	// Initialize controllers
	productController := controller.NewProductController(productService, cfg.Catalog.PageSize)
	wishlistController := controller.NewWishlistController(wishlistService)
	mypageController := controller.NewMypageController(productService, wishlistService, mypageService)
	chatController := controller.NewChatController(chatService, hub, cfg.CORS.AllowedOrigins)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry, registry)

	// Setup router
	r := router.NewRouter(
		productController,
		wishlistController,
		mypageController,
		chatController,
		metrics,
		cfg,
	)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
