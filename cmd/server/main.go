package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/npatel/recipebox-backend/config"
	"github.com/npatel/recipebox-backend/internal/app/controller"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/app/service"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/npatel/recipebox-backend/internal/middleware"
	"github.com/npatel/recipebox-backend/internal/router"
	"github.com/npatel/recipebox-backend/internal/scheduler"
	"github.com/npatel/recipebox-backend/internal/storage"
	"github.com/npatel/recipebox-backend/internal/websocket"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"github.com/npatel/recipebox-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting RecipeBox Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for the token blacklist. The server runs without
	// it, logout revocation just degrades to a warning.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)
	saveRepo := repository.NewSaveRepository(database)
	descriptorRepo := repository.NewDescriptorRepository(database)
	groceryRepo := repository.NewGroceryRepository(database)

	// Start the live feedback feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	recipeService := service.NewRecipeService(recipeRepo, descriptorRepo, database)
	feedbackService := service.NewFeedbackService(feedbackRepo, recipeRepo, hub)
	saveService := service.NewSaveService(saveRepo, recipeRepo)
	descriptorService := service.NewDescriptorService(descriptorRepo)
	groceryService := service.NewGroceryService(groceryRepo)

	s3Storage := storage.NewS3Storage(&cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService, recipeService)
	recipeController := controller.NewRecipeController(recipeService)
	feedbackController := controller.NewFeedbackController(feedbackService)
	saveController := controller.NewSaveController(saveService)
	descriptorController := controller.NewDescriptorController(descriptorService)
	groceryController := controller.NewGroceryController(groceryService)
	uploadController := controller.NewUploadController(s3Storage)
	feedController := controller.NewFeedController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the nightly rating snapshot refresh
	snapshotScheduler := scheduler.NewRatingSnapshotScheduler(recipeService)
	if err := snapshotScheduler.Start(); err != nil {
		logger.Fatal("Failed to start rating snapshot scheduler", err)
	}
	defer snapshotScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		recipeController,
		feedbackController,
		saveController,
		descriptorController,
		groceryController,
		uploadController,
		feedController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
