package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/janhq/freesearch-mcp/internal/infrastructure/config"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/logger"
	"github.com/janhq/freesearch-mcp/internal/infrastructure/observability"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver/routes/mcp"
)

type Application struct {
	config     *config.Config
	mcpRoute   *mcp.MCPRoute
	httpServer *httpserver.HTTPServer
	tracing    *observability.Provider
}

func init() {
	// Initialize logger with default settings
	_, _ = logger.Init("info", "console", "")
}

// Start serves MCP on the configured transport until ctx is cancelled.
func (app *Application) Start(ctx context.Context) error {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.tracing.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	switch app.config.Transport {
	case config.TransportHTTP:
		return app.httpServer.Run(ctx)
	default:
		return app.mcpRoute.RunStdio(ctx)
	}
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Re-initialize logger with config settings
	closeLog, err := logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer closeLog()

	log.Info().
		Str("transport", cfg.Transport).
		Str("searxng_url", cfg.SearxngURL).
		Str("log_level", cfg.LogLevel).
		Int("rate_limit_per_second", cfg.RateLimitPerSecond).
		Int("rate_limit_per_month", cfg.RateLimitPerMonth).
		Msg("Starting freesearch MCP server")

	// Create application with dependency injection
	application, err := CreateApplication(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	if err := application.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("server stopped with error")
		closeLog()
		os.Exit(1)
	}
	log.Info().Msg("server exited cleanly")
}
