// cmd/gateway/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/backend"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	httpserver "github.com/your-org/storefront-gateway/internal/interfaces/http"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-gateway/internal/pkg/auth"
	"github.com/your-org/storefront-gateway/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
	}).Infof("Starting %s", cfg.App.Name)

	// Select the durable backing store
	adapter, redisClient, cleanup, err := newStorage(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	// Backend API client (shared cookie jar across all callers)
	client, err := backend.NewClient(cfg, logger.WithField("component", "backend"))
	if err != nil {
		logger.Fatalf("Failed to create backend client: %v", err)
	}

	// Token store, cart store, session manager
	tokens, err := auth.NewTokenStore(adapter, cfg.Security.TokenSealSecret, logger.WithField("component", "tokens"))
	if err != nil {
		logger.Fatalf("Failed to create token store: %v", err)
	}

	cartStore := cart.NewStore(adapter, logger.WithField("component", "cart"))

	sessionLog := logger.WithField("component", "session")
	sessions := session.NewManager(client, tokens, sessionLog,
		session.NewBearerTokenStrategy(tokens, client, sessionLog),
		session.NewCookieSessionStrategy(client, sessionLog),
	)

	// The cart store follows every identity resolution
	sessions.OnIdentityChanged(cartStore.SetActiveIdentity)

	// Resolve the identity persisted credentials still grant
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	sessions.CheckAuthStatus(startupCtx)
	cancelStartup()

	catalogService := catalog.NewService(client, redisClient, cfg.Storage.CatalogCache, logger.WithField("component", "catalog"))
	pdfService := pdf.NewService(cfg)

	// Create and start HTTP server
	server := httpserver.NewServer(cfg, logger,
		handlers.NewCartHandler(cartStore, sessions, pdfService),
		handlers.NewAuthHandler(sessions),
		handlers.NewCatalogHandler(catalogService, client, sessions),
	)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}
}

// newLogger configures the application logger
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// newStorage builds the configured storage adapter. The returned Redis
// client is nil unless the redis driver is active; the catalog cache
// piggybacks on it when present.
func newStorage(cfg *config.Config, logger *logrus.Logger) (storage.Adapter, *redis.Client, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		store, err := storage.NewRedis(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Redis storage connected")
		return store, store.Client(), func() { _ = store.Close() }, nil

	case config.StorageDriverPostgres:
		store, err := storage.NewPostgres(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Postgres storage connected")
		return store, nil, func() { _ = store.Close() }, nil

	default:
		logger.Warn("Using in-memory storage, cart state will not survive restarts")
		return storage.NewMemory(), nil, func() {}, nil
	}
}
