package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postboard/postboard/internal/api"
	"github.com/postboard/postboard/internal/auth"
	"github.com/postboard/postboard/internal/cache"
	"github.com/postboard/postboard/internal/db"
	"github.com/postboard/postboard/internal/moderation"
	"github.com/postboard/postboard/internal/service"
	"github.com/postboard/postboard/pkg/config"
	"github.com/postboard/postboard/pkg/logging"
	"github.com/postboard/postboard/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Postboard API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database and run migrations
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; a nil cache disables analytics caching.
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		redisCache = nil
	}
	if redisCache != nil {
		defer redisCache.Close()
	}

	moderator, err := moderation.New(&cfg.Moderation)
	if err != nil {
		logger.Fatal("Failed to create moderation client", zap.Error(err))
	}

	tokens, err := auth.NewTokenService(&cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to create token service", zap.Error(err))
	}

	// Wire repositories and services
	repo := db.NewRepository(database.DB)
	userRepo := db.NewUserRepository(repo)
	postRepo := db.NewPostRepository(repo)
	commentRepo := db.NewCommentRepository(repo)

	scheduler := service.NewAutoReplyScheduler(commentRepo, moderator, cfg.AutoReply)
	defer scheduler.Stop()

	router := api.NewRouter(
		service.NewUserService(userRepo, cfg.Auth.BcryptCost),
		service.NewPostService(postRepo, moderator),
		service.NewCommentService(commentRepo, postRepo, moderator, scheduler),
		service.NewAnalyticsService(commentRepo, redisCache, cfg.Redis.AnalyticsTTL),
		tokens,
	)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	router.SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
