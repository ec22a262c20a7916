package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OpenNSW/cdn/internal/config"
	"github.com/OpenNSW/cdn/internal/logging"
	"github.com/OpenNSW/cdn/internal/router"
	"github.com/OpenNSW/cdn/internal/uploads"
	"github.com/OpenNSW/cdn/internal/uploads/drivers"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(logging.New(cfg.Log, os.Stdout))
	gin.SetMode(cfg.Server.GinMode)

	// Creates the upload directory if it does not exist yet
	driver, err := drivers.NewLocalFSDriver(cfg.Storage.UploadDir, cfg.Server.BaseURL)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	service := uploads.NewUploadService(driver, uploads.Options{StrictContent: cfg.Storage.StrictContent})
	handler := uploads.NewHTTPHandler(service, cfg.Storage.MaxUploadBytes)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"upload_dir", driver.BaseDir,
		"secret", cfg.Auth.MaskedSecret(),
		"max_upload_bytes", cfg.Storage.MaxUploadBytes,
		"strict_content", cfg.Storage.StrictContent,
		"trusted_proxies", cfg.Server.TrustedProxies,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	slog.Info("endpoints",
		"upload", "POST "+cfg.Server.BaseURL+"/upload/",
		"health", "GET "+cfg.Server.BaseURL+"/health",
		"files", "GET "+cfg.Server.BaseURL+"/<filename>",
	)

	engine, err := router.New(cfg, handler)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}
}
