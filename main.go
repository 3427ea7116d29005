package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-ops-dashboard/config"
	"trading-ops-dashboard/internal/api"
	"trading-ops-dashboard/internal/auth"
	"trading-ops-dashboard/internal/backend"
	"trading-ops-dashboard/internal/cache"
	"trading-ops-dashboard/internal/database"
	"trading-ops-dashboard/internal/editor"
	"trading-ops-dashboard/internal/logging"
	"trading-ops-dashboard/internal/vault"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LoggingConfig)
	logger.Info().Msg("starting trading ops dashboard")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Operator store and audit trail. Required when auth is on; otherwise
	// the dashboard runs without an audit trail.
	var db *database.DB
	var repo *database.Repository
	db, err = database.NewDB(cfg.DBConfig, logging.Component(logger, "database"))
	if err != nil {
		if cfg.AuthConfig.Enabled {
			logger.Fatal().Err(err).Msg("auth is enabled but the operator database is unreachable")
		}
		logger.Warn().Err(err).Msg("operator database unavailable, running without audit trail")
	} else {
		defer db.Close()
		if err := db.RunMigrations(ctx); err != nil {
			logger.Fatal().Err(err).Msg("database migrations failed")
		}
		repo = database.NewRepository(db)
	}

	// Redis is an optimization, never a requirement.
	var paramCache *cache.ParameterCache
	var balanceCache *cache.BalanceCache
	if cfg.RedisConfig.Enabled {
		cacheService, err := cache.NewCacheService(cfg.RedisConfig, logging.Component(logger, "cache"))
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			defer cacheService.Close()
			paramCache = cache.NewParameterCache(cacheService)
			balanceCache = cache.NewBalanceCache(cacheService)
		}
	}

	backendClient := backend.NewClient(cfg.BackendConfig, logging.Component(logger, "backend"))

	// Credential store for per-platform backend tokens. With Vault disabled
	// it degrades to an in-memory store, but the admin endpoints stay up.
	vaultClient, err := vault.NewClient(cfg.VaultConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vault client")
	}
	if cfg.VaultConfig.Enabled {
		cred, err := vaultClient.GetCredential(ctx, "default")
		if err != nil {
			logger.Warn().Err(err).Msg("no backend credential in vault, using configured token")
		} else {
			backendClient.SetToken(cred.APIToken)
			logger.Info().Msg("backend credential loaded from vault")
		}
	}

	var editorCache editor.ParameterCache
	if paramCache != nil {
		editorCache = paramCache
	}
	editorManager := editor.NewManager(backendClient, editorCache, logging.Component(logger, "editor"))

	deps := api.Deps{
		Backend:     backendClient,
		Editor:      editorManager,
		Credentials: vaultClient,
	}
	if balanceCache != nil {
		deps.Balances = balanceCache
	}
	if repo != nil {
		deps.Audit = repo
		deps.DB = db
	}

	if cfg.AuthConfig.Enabled {
		if cfg.AuthConfig.JWTSecret == "" {
			logger.Fatal().Msg("AUTH_JWT_SECRET must be set when auth is enabled")
		}
		jwtManager := auth.NewJWTManager(cfg.AuthConfig.JWTSecret,
			cfg.AuthConfig.AccessTokenDuration, cfg.AuthConfig.RefreshTokenDuration)
		passwords := auth.NewPasswordManager(auth.DefaultBcryptCost, cfg.AuthConfig.MinPasswordLength)
		authService := auth.NewService(repo, jwtManager, passwords, logging.Component(logger, "auth"))

		if err := authService.SeedAdmin(ctx, cfg.AuthConfig.AdminUsername, cfg.AuthConfig.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed admin operator")
		}

		deps.AuthHandler = auth.NewHandler(authService)
		deps.JWTManager = jwtManager
		deps.AuthEnabled = true
	}

	server := api.NewServer(cfg.ServerConfig, deps, logging.Component(logger, "api"))

	poller := api.NewStatusPoller(backendClient, server.Hub(), 5*time.Second, logging.Component(logger, "poller"))
	go poller.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg("server failed")
		}
	}

	shutdownTimeout := time.Duration(cfg.ServerConfig.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	logger.Info().Msg("dashboard stopped")
}
