// Package main is the entry point for the restaking frontier service.
// The application computes attainable risk/return frontiers for two-AVS
// restaking and leveraged portfolios and serves them over HTTP: as JSON or
// MessagePack data, as a rendered SVG scatter plot, and as a live WebSocket
// recompute channel behind a small embedded analysis page.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/restaking-frontier/internal/config"
	"github.com/aristath/restaking-frontier/internal/server"
	"github.com/aristath/restaking-frontier/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger with config level
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting restaking frontier service")

	srv := server.New(server.Config{
		Log:     log,
		Config:  cfg,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine so shutdown handling below can take over
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Int("grid_points", cfg.GridPoints).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with up to 10 seconds for in-flight requests
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
