// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/container"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
	"github.com/moodayhq/mooday-go/internal/presentation/http/server"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// Initialize runs the full startup sequence and blocks until shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	config.Initialize()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: true,
		LogDirectory:    config.LogDirectory,
		DefaultLevel:    logging.DefaultLoggerConfig().DefaultLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Startup().Info("Starting Mooday backend")

	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	tables := database.NewTableCreator()
	if err := tables.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if config.SeedSampleFeed {
		if err := tables.SeedSampleFeed(db.DB); err != nil {
			logger.Startup().Warn("Sample feed seeding failed", "error", err)
		}
	}

	appContainer, err := container.NewContainer(logger, db)
	if err != nil {
		return err
	}

	// Background broadcaster for circle push updates.
	go appContainer.Broadcaster.Run()

	// Hydration: restore persisted local state before serving anything.
	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), 10*time.Second)
	if err := appContainer.OnboardingService.Hydrate(); err != nil {
		logger.Startup().Warn("Onboarding hydration failed", "error", err)
	}
	if err := appContainer.SessionService.Initialize(hydrateCtx); err != nil {
		logger.Startup().Warn("Session restore failed", "error", err)
	}
	cancelHydrate()

	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete", "totalUptime", time.Since(start))
	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
