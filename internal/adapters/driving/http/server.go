package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	redirects  RedirectConfig
	cookies    CookieWriter
	logger     *zap.Logger

	// Services
	authService    driving.AuthService
	oauthService   driving.OAuthService
	syncService    driving.CreatorSyncService
	accountService driving.LinkedAccountService

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	Redirects RedirectConfig

	// CookieSecure marks credential cookies Secure. Disable only for local
	// development over plain HTTP.
	CookieSecure bool

	Logger *zap.Logger
}

// RedirectConfig holds the browser destinations after an OAuth callback.
type RedirectConfig struct {
	AppBaseURL  string
	SuccessPath string
	ErrorPath   string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
		Redirects: RedirectConfig{
			AppBaseURL:  "http://localhost:3000",
			SuccessPath: "/creator/settings",
			ErrorPath:   "/creator/settings",
		},
		CookieSecure: true,
	}
}

// Services groups the driving ports the server exposes.
type Services struct {
	Auth     driving.AuthService
	OAuth    driving.OAuthService
	Sync     driving.CreatorSyncService
	Accounts driving.LinkedAccountService
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, services Services, db Pinger, redisClient Pinger) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		redirects:      cfg.Redirects,
		cookies:        CookieWriter{Secure: cfg.CookieSecure},
		logger:         log,
		authService:    services.Auth,
		oauthService:   services.OAuth,
		syncService:    services.Sync,
		accountService: services.Accounts,
		db:             db,
		redisClient:    redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// OAuth flow endpoints. The provider redirects the browser here, so the
	// session is optional and its absence is reported by the callback.
	s.router.Handle("GET /api/v1/oauth/tiktok/authorize",
		authMiddleware.Identify(http.HandlerFunc(s.handleOAuthAuthorize)))
	s.router.Handle("GET /api/v1/oauth/tiktok/callback",
		authMiddleware.Identify(http.HandlerFunc(s.handleOAuthCallback)))

	// Creator endpoints
	s.router.Handle("POST /api/v1/creators/sync",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSyncCreators))))
	s.router.Handle("GET /api/v1/creators/{handle}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetCreator)))

	// Linked account endpoints
	s.router.Handle("GET /api/v1/accounts/tiktok",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetLinkedAccount)))
}

// Handler returns the router wrapped with recovery and request logging.
func (s *Server) Handler() http.Handler {
	logging := NewLoggingMiddleware(s.logger)
	recovery := NewRecoveryMiddleware(s.logger)
	return logging.Handler(recovery.Handler(s.router))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
