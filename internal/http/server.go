// Package http provides the HTTP server and route wiring.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/keygate/keygate/internal/auth/http"
	"github.com/keygate/keygate/internal/config"
	"github.com/keygate/keygate/internal/metrics"
	registryHTTP "github.com/keygate/keygate/internal/registry/http"
	signingHTTP "github.com/keygate/keygate/internal/signing/http"
)

// Handlers groups the module handlers mounted on the API server.
type Handlers struct {
	Workspace     *registryHTTP.WorkspaceHandler
	API           *registryHTTP.APIHandler
	SigningSecret *signingHTTP.SigningSecretHandler
	Client        *authHTTP.ClientHandler
	Token         *authHTTP.TokenHandler
}

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes and middleware wired.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	handlers Handlers,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")

	// Workspaces
	v1.POST("/workspaces", handlers.Workspace.CreateHandler)
	v1.GET("/workspaces/:workspace_id", handlers.Workspace.GetHandler)

	// APIs and scopes
	v1.POST("/apis", handlers.API.CreateHandler)
	v1.GET("/apis/:api_id", handlers.API.GetHandler)
	v1.POST("/apis/:api_id/scopes", handlers.API.AddScopeHandler)
	v1.GET("/apis/:api_id/scopes", handlers.API.ListScopesHandler)
	v1.DELETE("/apis/:api_id/scopes/:name", handlers.API.RemoveScopeHandler)

	// Signing secrets
	v1.POST("/apis/:api_id/signing-secrets/rotate", handlers.SigningSecret.RotateHandler)
	v1.GET("/apis/:api_id/.well-known/jwks.json", handlers.SigningSecret.JWKSHandler)

	// Clients
	v1.POST("/clients", handlers.Client.CreateHandler)
	v1.GET("/clients/:client_id", handlers.Client.GetHandler)
	v1.DELETE("/clients/:client_id", handlers.Client.DeleteHandler)
	v1.POST("/clients/:client_id/secrets/rotate", handlers.Client.RotateSecretHandler)
	v1.POST("/clients/:client_id/scopes", handlers.Client.GrantScopeHandler)
	v1.DELETE("/clients/:client_id/scopes/:name", handlers.Client.RevokeScopeHandler)

	// Tokens. The issue endpoint is unauthenticated and carries credentials
	// in the body, so it gets its own per-IP limiter.
	tokenRoutes := v1.Group("")
	if cfg.RateLimitTokenEnabled {
		tokenRoutes.Use(authHTTP.TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			logger,
		))
	}
	tokenRoutes.POST("/oauth/token", handlers.Token.IssueHandler)
	v1.POST("/tokens/verify", handlers.Token.VerifyHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
