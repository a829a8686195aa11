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

	"github.com/sportaccessories/storefront/config"
	"github.com/sportaccessories/storefront/internal/app/controller"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/app/service"
	"github.com/sportaccessories/storefront/internal/db"
	"github.com/sportaccessories/storefront/internal/middleware"
	"github.com/sportaccessories/storefront/internal/router"
	"github.com/sportaccessories/storefront/internal/scheduler"
	"github.com/sportaccessories/storefront/internal/storage"
	"github.com/sportaccessories/storefront/pkg/logger"
	"github.com/sportaccessories/storefront/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting storefront API server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Server.LogLevel,
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

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if cfg.Database.SeedProducts {
		if err := db.SeedProducts(db.GetDB()); err != nil {
			logger.Warn("Failed to seed products", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	ctx := context.Background()

	// Token revocation is optional; without Redis logout is client-side only
	var tokenStore *redis.TokenStore
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		tokenStore = redis.NewTokenStore(client)
		defer tokenStore.Close()
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Initialize services
	var revoker service.TokenRevoker
	var revocationChecker middleware.RevocationChecker
	if tokenStore != nil {
		revoker = tokenStore
		revocationChecker = tokenStore
	}
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.Expiry)
	productService := service.NewProductService(productRepo, images, cfg.Storage.MaxBytes)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, userRepo)

	// Background jobs
	var sweeper *scheduler.CartSweepScheduler
	if cfg.Scheduler.CartSweepSchedule != "" {
		sweeper = scheduler.NewCartSweepScheduler(cartService, cfg.Scheduler.CartSweepSchedule)
		if err := sweeper.Start(); err != nil {
			logger.Fatal("Failed to start cart sweep scheduler", err)
		}
	}

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService),
		controller.NewUploadController(productService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revocationChecker),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
