// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/solera-market/solera/internal/api"
	"github.com/solera-market/solera/internal/api/handlers"
	"github.com/solera-market/solera/internal/auth"
	"github.com/solera-market/solera/internal/bus"
	"github.com/solera-market/solera/internal/config"
	"github.com/solera-market/solera/internal/crypto"
	"github.com/solera-market/solera/internal/db"
	"github.com/solera-market/solera/internal/logger"
	"github.com/solera-market/solera/internal/rbac"
	"github.com/solera-market/solera/internal/settings"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Config holds the server configuration options.
type Config struct {
	Port    int    // Port to run the server on (0 = use config default)
	Version string // Version string to report
}

// Run starts the server with the given configuration and blocks until the
// context is canceled.
func Run(ctx context.Context, cfg Config) error {
	// Set version in handlers
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	// Load configuration
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from CLI flag if provided
	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}

	// Initialize logger
	logger.Init(appCfg.Log.Format, appCfg.Log.Level)
	slog.Info("Starting Solera server", "version", cfg.Version, "mode", appCfg.Server.Mode)

	// Propagate app log level to database if not explicitly set
	if appCfg.Database.LogLevel == "" {
		appCfg.Database.LogLevel = appCfg.Log.Level
	}

	// Initialize database
	database, err := db.New(appCfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", appCfg.Database.Driver)

	// Run migrations and seed the default settings rows
	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")

	instanceID, err := db.GetOrCreateInstanceID(database)
	if err != nil {
		return fmt.Errorf("failed to initialize instance ID: %w", err)
	}
	slog.Info("Instance ID initialized", "instance_id", instanceID)

	// Derive the settings encryption key. Falling back to the JWT secret
	// keeps development zero-config; HKDF domain separation keeps the two
	// keys independent.
	encSecret := appCfg.Security.EncryptionSecret
	if encSecret == "" {
		if appCfg.Server.Mode == "production" {
			return fmt.Errorf("security.encryption_secret is required in production")
		}
		slog.Warn("security.encryption_secret not set, deriving from auth.jwt_secret")
		encSecret = appCfg.Auth.JWTSecret
	}
	encKey, err := crypto.DeriveKey(encSecret)
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}

	// Initialize RBAC and the bootstrap admin
	enforcer, err := rbac.NewEnforcer(database)
	if err != nil {
		return fmt.Errorf("failed to initialize RBAC: %w", err)
	}
	if err := db.CreateDefaultAdmin(database, enforcer, appCfg.Auth); err != nil {
		return fmt.Errorf("failed to create default admin user: %w", err)
	}

	// Initialize the settings service and its invalidation bus
	settingsSvc := settings.NewService(settings.NewStore(database, encKey), appCfg.Settings.CacheTTL)

	invalidationBus, err := createBus(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize invalidation bus: %w", err)
	}
	defer invalidationBus.Close()
	slog.Info("Invalidation bus initialized", "type", appCfg.Bus.Type)

	// Initialize authenticator
	authenticator, err := createAuthenticator(ctx, appCfg, database)
	if err != nil {
		return fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	router := api.NewRouter(appCfg, database, settingsSvc, invalidationBus, enforcer, authenticator)

	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := invalidationBus.Subscribe(gCtx, settingsSvc.Invalidate)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("invalidation subscription failed: %w", err)
		}
		return nil
	})

	// Shut the listener down once the context is canceled or either
	// goroutine fails.
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Solera exited")
	return nil
}

// RunWithSignalHandling starts the server and handles OS signals for graceful shutdown.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, cfg)
}

// createBus creates an invalidation bus based on configuration.
func createBus(cfg *config.Config) (bus.InvalidationBus, error) {
	switch cfg.Bus.Type {
	case "memory":
		return bus.NewMemoryBus(), nil
	case "valkey":
		if cfg.Bus.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey address is required when bus type is valkey")
		}
		return bus.NewValkeyBus(cfg.Bus.ValkeyAddr)
	default:
		return nil, fmt.Errorf("unsupported bus type: %s (supported: memory, valkey)", cfg.Bus.Type)
	}
}

// createAuthenticator creates an authenticator based on configuration.
func createAuthenticator(ctx context.Context, cfg *config.Config, database *gorm.DB) (auth.Authenticator, error) {
	switch cfg.Auth.Type {
	case "basic":
		return auth.NewBasicAuthenticator(database, cfg.Auth.JWTSecret), nil
	case "oidc":
		return auth.NewOIDCAuthenticator(ctx, auth.OIDCConfig{
			IssuerURL:    cfg.Auth.OIDC.IssuerURL,
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
		}, database, cfg.Auth.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported auth type: %s (supported: basic, oidc)", cfg.Auth.Type)
	}
}
