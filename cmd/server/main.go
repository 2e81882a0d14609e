package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minjk/moamall-backend/config"
	"github.com/minjk/moamall-backend/internal/app/controller"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/internal/app/service"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/minjk/moamall-backend/internal/router"
	"github.com/minjk/moamall-backend/internal/storage"
	"github.com/minjk/moamall-backend/pkg/logger"
	"github.com/minjk/moamall-backend/pkg/redis"
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

	logger.Info("Starting MOAMALL Catalog Server", map[string]interface{}{
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

	// Redis is optional: the filter cache degrades to direct queries.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Failed to connect to Redis, filter cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	adminUserRepo := repository.NewAdminUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	attributeRepo := repository.NewAttributeRepository(db.GetDB())
	categoryAttributeRepo := repository.NewCategoryAttributeRepository(db.GetDB())
	productAttributeRepo := repository.NewProductAttributeRepository(db.GetDB())
	combinationRepo := repository.NewCombinationRepository(db.GetDB())
	valueRepo := repository.NewAttributeValueRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(adminUserRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	attributeService := service.NewAttributeService(
		attributeRepo,
		categoryAttributeRepo,
		productAttributeRepo,
		productRepo,
		categoryRepo,
	)
	optionService := service.NewOptionService(attributeRepo, categoryAttributeRepo, productAttributeRepo)
	pricingService := service.NewPricingService(productRepo, combinationRepo, attributeService, optionService)
	valueService := service.NewValueService(valueRepo, attributeRepo, productRepo, cfg.Cache.FilterTTL)

	// Swatch storage
	swatchStorage, err := storage.NewS3Storage(context.Background(), &cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize swatch storage", err)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	attributeController := controller.NewAttributeController(attributeService, optionService)
	categoryAttributeController := controller.NewCategoryAttributeController(attributeService, optionService)
	productAttributeController := controller.NewProductAttributeController(attributeService, optionService)
	pricingController := controller.NewPricingController(pricingService, productService, attributeService)
	valueController := controller.NewValueController(valueService)
	uploadController := controller.NewUploadController(swatchStorage)

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		attributeController,
		categoryAttributeController,
		productAttributeController,
		pricingController,
		valueController,
		uploadController,
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
