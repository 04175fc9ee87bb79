package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spice-storefront/internal/config"
	"spice-storefront/internal/database"
	"spice-storefront/internal/handler"
	"spice-storefront/internal/media"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/resolver"
	"spice-storefront/internal/router"
	"spice-storefront/internal/service"
	"spice-storefront/internal/session"

	"github.com/rs/zerolog"
)

const (
	mediaCacheTTL        = 10 * time.Minute
	mediaCacheMaxEntries = 4096
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting spice-storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize catalog client
	catalog, err := repository.NewCatalogRepository(cfg.Catalog, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	// Initialize tab cache store
	store, closeStore, err := newTabStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tab store: %w", err)
	}
	defer closeStore()

	// Initialize image checker with S3 and a no-op fallback
	checker := newMediaChecker(ctx, cfg.Media, logger)

	// Initialize services
	sequencer := resolver.NewSequencer(time.Now())
	storefrontService := service.NewStorefrontService(catalog, store, sequencer, cfg.View, logger)
	productService := service.NewProductService(catalog, checker, cfg.View, logger)

	// Initialize HTTP handlers
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	// Initialize router
	mux := router.New(storefrontHandler, productHandler, cfg.Auth.APIKey, cfg.Session, logger)

	// Sweep expired tab slots in the background
	janitor := session.NewJanitor(store, cfg.Session.TTL, cfg.Session.TTL/2, logger)
	go janitor.Run(ctx)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Catalog.Timeout*time.Duration(cfg.Catalog.MaxRetries+1) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("catalog", cfg.Catalog.BaseURL).
			Str("tab_store", cfg.Session.Store).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop the janitor before draining requests
		cancel()

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newTabStore opens the configured tab cache backend. The returned func
// releases the store and any connection it owns.
func newTabStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewRedisStore(client, cfg.Session.TTL, logger)
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store := session.NewPostgresStore(pool, logger)
		return store, func() {
			_ = store.Close()
			pool.Close()
		}, nil

	default:
		logger.Info().Msg("using in-memory tab store")
		store := session.NewMemoryStore()
		return store, func() { _ = store.Close() }, nil
	}
}

// newMediaChecker returns the S3 image checker when enabled, falling back to
// a checker that trusts every URL.
func newMediaChecker(ctx context.Context, cfg config.MediaConfig, logger zerolog.Logger) media.Checker {
	if !cfg.Enabled {
		logger.Info().Msg("image existence checks disabled")
		return media.NewNopChecker()
	}

	s3Checker, err := media.NewS3Checker(ctx, cfg, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 image checker, trusting image URLs")
		return media.NewNopChecker()
	}
	return media.NewCachingChecker(s3Checker, mediaCacheTTL, mediaCacheMaxEntries, logger)
}
