// Package api is the HTTP surface the dashboard frontend consumes.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trading-ops-dashboard/config"
	"trading-ops-dashboard/internal/auth"
	"trading-ops-dashboard/internal/backend"
	"trading-ops-dashboard/internal/database"
	"trading-ops-dashboard/internal/editor"
	"trading-ops-dashboard/internal/params"
	"trading-ops-dashboard/internal/vault"
)

// RateLimiter provides simple in-memory rate limiting per endpoint
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// BackendAPI is the slice of the backend client the handlers use. Narrowed
// to an interface so handler tests can run against a fake.
type BackendAPI interface {
	ListInstances(ctx context.Context) ([]backend.Instance, error)
	StartInstance(ctx context.Context, instanceID string) error
	StopInstance(ctx context.Context, instanceID string) error
	DeleteInstance(ctx context.Context, instanceID string) error
	GetInstanceParameters(ctx context.Context, instanceID string) (params.RawParams, error)
	ListAccountBalances(ctx context.Context) ([]backend.AccountBalance, error)
	GetLogs(ctx context.Context, q backend.LogQuery) ([]backend.LogRecord, error)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BalanceCache caches the aggregated balances panel. Nil-able.
type BalanceCache interface {
	Get(ctx context.Context) ([]backend.AccountBalance, bool)
	Set(ctx context.Context, balances []backend.AccountBalance)
	Invalidate(ctx context.Context)
}

// CredentialStore manages the per-platform backend credentials. Nil-able;
// backed by Vault (or its local fallback) in production.
type CredentialStore interface {
	StoreCredential(ctx context.Context, cred vault.Credential) error
	DeleteCredential(ctx context.Context, platform string) error
}

// AuditTrail records operator commands. Nil-able; auditing is skipped when
// the database is not configured.
type AuditTrail interface {
	RecordAuditEvent(ctx context.Context, event database.AuditEvent) error
	ListAuditEvents(ctx context.Context, instanceID string, limit int) ([]database.AuditEvent, error)
}

// Server is the dashboard HTTP API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cfg        config.ServerConfig
	logger     zerolog.Logger

	backend     BackendAPI
	editor      *editor.Manager
	audit       AuditTrail      // may be nil
	db          HealthChecker   // may be nil
	balances    BalanceCache    // may be nil
	credentials CredentialStore // may be nil
	hub         *Hub

	authHandler *auth.Handler
	jwtManager  *auth.JWTManager
	authEnabled bool

	rateLimiter *RateLimiter
}

// Deps bundles the server's collaborators.
type Deps struct {
	Backend     BackendAPI
	Editor      *editor.Manager
	Audit       AuditTrail
	DB          HealthChecker
	Balances    BalanceCache
	Credentials CredentialStore
	AuthHandler *auth.Handler
	JWTManager  *auth.JWTManager
	AuthEnabled bool
}

// NewServer builds the router and wires all routes.
func NewServer(cfg config.ServerConfig, deps Deps, logger zerolog.Logger) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(cfg.AllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:      router,
		cfg:         cfg,
		logger:      logger,
		backend:     deps.Backend,
		editor:      deps.Editor,
		audit:       deps.Audit,
		db:          deps.DB,
		balances:    deps.Balances,
		credentials: deps.Credentials,
		hub:         NewHub(logger),
		authHandler: deps.AuthHandler,
		jwtManager:  deps.JWTManager,
		authEnabled: deps.AuthEnabled && deps.JWTManager != nil,
		rateLimiter: NewRateLimiter(120, time.Minute),
	}

	server.setupRoutes()
	return server
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return []string{"http://localhost:5173"}
	}
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// rateLimitMiddleware limits requests per endpoint path.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.rateLimiter.Allow(c.FullPath()) {
			errorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws", s.handleWebSocket)

	if s.cfg.StaticFilesPath != "" {
		s.router.Static("/app", s.cfg.StaticFilesPath)
		s.router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/app")
		})
	}

	if s.authHandler != nil {
		authGroup := s.router.Group("/api/auth")
		s.authHandler.RegisterRoutes(authGroup)
	}

	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())
	if s.authEnabled {
		api.Use(auth.Middleware(s.jwtManager))
	}

	instances := api.Group("/instances")
	{
		instances.GET("", s.handleListInstances)
		instances.POST("/:id/start", s.handleStartInstance)
		instances.POST("/:id/stop", s.handleStopInstance)
		instances.DELETE("/:id", s.handleDeleteInstance)
		instances.GET("/:id/parameters", s.handleGetInstanceParameters)
	}

	editorGroup := api.Group("/editor")
	{
		editorGroup.POST("/open", s.handleOpenEditor)
		editorGroup.GET("/:sessionId", s.handleGetEditor)
		editorGroup.PUT("/:sessionId/parameters", s.handleUpdateParameters)
		editorGroup.POST("/:sessionId/template", s.handleRequestTemplate)
		editorGroup.POST("/:sessionId/template/confirm", s.handleConfirmTemplate)
		editorGroup.POST("/:sessionId/template/cancel", s.handleCancelTemplate)
		editorGroup.POST("/:sessionId/refresh", s.handleRefreshEditor)
		editorGroup.POST("/:sessionId/auto-trade/request", s.handleRequestAutoTrade)
		editorGroup.POST("/:sessionId/auto-trade/confirm", s.handleConfirmAutoTrade)
		editorGroup.POST("/:sessionId/auto-trade/disable", s.handleDisableAutoTrade)
		editorGroup.POST("/:sessionId/save", s.handleSaveEditor)
		editorGroup.DELETE("/:sessionId", s.handleCloseEditor)
	}

	if s.credentials != nil {
		platforms := api.Group("/platforms")
		if s.authEnabled {
			platforms.Use(auth.RequireAdmin())
		}
		platforms.PUT("/:platform/credentials", s.handleStoreCredential)
		platforms.DELETE("/:platform/credentials", s.handleDeleteCredential)
	}

	api.GET("/templates", s.handleListTemplates)
	api.GET("/accounts/balances", s.handleAccountBalances)
	api.GET("/logs", s.handleGetLogs)
	api.GET("/logs/export", s.handleExportLogs)
	api.GET("/audit", s.handleListAudit)
}

// Start runs the HTTP server. Blocks until shutdown or failure.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	readTimeout := time.Duration(s.cfg.ReadTimeout) * time.Second
	writeTimeout := time.Duration(s.cfg.WriteTimeout) * time.Second
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 15 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	s.hub.Stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the websocket hub so background pollers can broadcast.
func (s *Server) Hub() *Hub {
	return s.hub
}

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbStatus := "disabled"
	healthy := true
	if s.db != nil {
		dbStatus = "healthy"
		if err := s.db.HealthCheck(ctx); err != nil {
			dbStatus = "unhealthy"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbStatus,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// errorResponse is a helper to send error responses
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// successResponse is a helper to send success responses
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
