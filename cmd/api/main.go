package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/squareeyes/storefront/api/routes"
	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/checkout"
	"github.com/squareeyes/storefront/internal/favourites"
	"github.com/squareeyes/storefront/internal/recommend"
	"github.com/squareeyes/storefront/pkg/config"
	"github.com/squareeyes/storefront/pkg/db"
	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
	"github.com/squareeyes/storefront/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	backend, closeBackend, err := newBackend(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage backend", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logg.Error(context.Background(), "error closing storage backend", err)
		}
	}()

	catalogClient, err := catalog.NewClient(cfg.Catalog)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalogClient, catalog.NewCache(cfg.Catalog.CacheTTL))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	cartStore, err := cart.NewStore(cart.StoreParams{
		Backend: backend,
		Logger:  logg,
		Metrics: storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	handoff, err := checkout.NewHandoff(checkout.HandoffParams{Backend: backend, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create order handoff", err)
		os.Exit(1)
	}
	checkoutManager, err := checkout.NewManager(checkout.ManagerParams{
		Cart:      cartStore,
		Handoff:   handoff,
		Logger:    logg,
		Metrics:   storefrontMetrics,
		LuhnCheck: cfg.FeatureFlags.LuhnCheck,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout manager", err)
		os.Exit(1)
	}

	favouritesService, err := favourites.NewService(favourites.ServiceParams{Backend: backend, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create favourites service", err)
		os.Exit(1)
	}

	feed, err := recommend.NewFeed(recommend.FeedParams{
		Catalog: catalogService,
		Cart:    cartStore,
		Logger:  logg,
		Limit:   cfg.Checkout.RecommendationLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendation feed", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:     cfg,
			Logger:     logg,
			Metrics:    storefrontMetrics,
			Backend:    backend,
			Catalog:    catalogService,
			Cart:       cartStore,
			Checkout:   checkoutManager,
			Favourites: favouritesService,
			Feed:       feed,
			Registry:   registry,
		}),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

// newBackend selects the kv store per config: in-memory for local use,
// redis or the database for deployments that need carts to survive a
// restart. The returned closer aggregates every resource it opened.
func newBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Store, func() error, error) {
	switch {
	case cfg.Storage.IsRedis():
		client, err := kv.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil

	case cfg.Storage.IsDB():
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, err
		}
		store, err := kv.NewDB(ctx, dbClient)
		if err != nil {
			return nil, nil, multierr.Append(err, dbClient.Close())
		}
		return store, dbClient.Close, nil

	default:
		return kv.NewMemory(), func() error { return nil }, nil
	}
}
