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

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/config"
	"github.com/sportaccessories/storefront/internal/web"
	"github.com/sportaccessories/storefront/pkg/logger"
	"github.com/sportaccessories/storefront/pkg/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})
	gin.SetMode(cfg.Server.GinMode)

	logger.Info("Starting storefront web server", map[string]interface{}{
		"port":    cfg.Web.Port,
		"api_url": cfg.Web.APIBaseURL,
	})

	api, err := storefront.NewClient(storefront.Config{
		BaseURL: cfg.Web.APIBaseURL,
		Timeout: cfg.Web.APITimeout,
	})
	if err != nil {
		logger.Fatal("Failed to create API client", err)
	}

	pages, err := web.NewServer(api, cfg.Web.CookieSecure)
	if err != nil {
		logger.Fatal("Failed to parse page templates", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Web.Port),
		Handler:           pages.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Web server started", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start web server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Web server forced to shutdown", err)
	}
}
