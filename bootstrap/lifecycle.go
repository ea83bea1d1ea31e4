// ABOUTME: Application entry point, startup and graceful shutdown
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	logger "lectio/utils/logger"
)

// Run is the main application entry point. It initializes all dependencies,
// starts the server, then waits for a shutdown signal.
func Run(ctx context.Context) error {
	loggerConfig := logger.LoadConfigFromEnv()
	log := logger.New("lectio", loggerConfig)

	log.Info("Starting lectio service",
		"log_level", loggerConfig.Level,
		"log_format", loggerConfig.Format)

	deps, cleanup, err := BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps)
	StartHTTPServer(httpServer, deps, log)

	log.Info("Lectio service started successfully", "port", deps.Config.Server.Port)
	waitForShutdown(httpServer, deps, log)

	return nil
}

func waitForShutdown(httpServer interface{ Shutdown(context.Context) error }, deps *Dependencies, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down lectio service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", "error", err)
	}

	log.Info("Lectio service stopped")
}
