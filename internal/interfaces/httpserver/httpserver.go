package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/janhq/freesearch-mcp/internal/infrastructure/config"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/freesearch-mcp/internal/interfaces/httpserver/routes/mcp"
)

const serviceName = "freesearch-mcp"

// BackendStatus reports the aggregator circuit breaker state.
type BackendStatus interface {
	State() string
}

type HTTPServer struct {
	router   *gin.Engine
	config   *config.Config
	mcpRoute *mcp.MCPRoute
	backend  BackendStatus
}

func NewHTTPServer(
	cfg *config.Config,
	mcpRoute *mcp.MCPRoute,
	backend BackendStatus,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	s := &HTTPServer{
		router:   router,
		config:   cfg,
		mcpRoute: mcpRoute,
		backend:  backend,
	}
	s.setupRoutes()
	return s
}

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		state := "disabled"
		if s.backend != nil {
			state = s.backend.State()
		}
		if state == "open" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "service": serviceName, "searxng": state})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName, "searxng": state})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	s.mcpRoute.RegisterRouter(v1)
}

// Handler exposes the router for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.config.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", srv.Addr).Str("transport", "http").Msg("MCP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
