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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/designstudio-backend/api/controllers"
	"github.com/angelmondragon/designstudio-backend/api/routes"
	cartsvc "github.com/angelmondragon/designstudio-backend/internal/cart"
	"github.com/angelmondragon/designstudio-backend/internal/designsessions"
	"github.com/angelmondragon/designstudio-backend/internal/filters"
	"github.com/angelmondragon/designstudio-backend/internal/settingtypes"
	"github.com/angelmondragon/designstudio-backend/internal/wizard"
	"github.com/angelmondragon/designstudio-backend/pkg/catalog"
	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/db"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
	"github.com/angelmondragon/designstudio-backend/pkg/metrics"
	"github.com/angelmondragon/designstudio-backend/pkg/migrate"
	"github.com/angelmondragon/designstudio-backend/pkg/redis"
	"github.com/angelmondragon/designstudio-backend/pkg/shopify"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepInterval   = time.Minute
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	catalogMetrics := metrics.NewCatalogMetrics(registry)
	wizardMetrics := metrics.NewWizardMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	catalogBackend, err := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithObserver(catalogMetrics),
	)
	if err != nil {
		return err
	}
	catalogClient := catalog.NewCachedClient(catalogBackend, redisClient, cfg.Catalog.CacheTTL, catalogMetrics)

	settingTypes, err := settingtypes.Load(cfg.Wizard.SettingTypesFile)
	if err != nil {
		return err
	}
	filterStore := filters.NewRedisStore(redisClient, cfg.Wizard.FilterTTL)

	factory := func(sessionID string) (*wizard.Controller, error) {
		return wizard.NewController(wizard.Params{
			SessionID:    sessionID,
			Catalog:      catalogClient,
			FilterStore:  filterStore,
			SettingTypes: settingTypes,
			Metrics:      wizardMetrics,
			Logger:       logg,
			Config:       cfg.Wizard,
		})
	}
	sessions, err := designsessions.NewService(designsessions.ServiceParams{
		Repo:      designsessions.NewRepository(dbClient.DB()),
		Factory:   factory,
		Session:   cfg.Session,
		Logger:    logg,
		IdleEvict: cfg.Session.IdleEvict,
	})
	if err != nil {
		return err
	}

	cartService, err := cartsvc.NewService(shopify.NewClient(cfg.Shopify), cartMetrics, logg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		map[string]controllers.Pinger{"database": dbClient, "redis": redisClient},
		redisClient,
		catalogClient,
		sessions,
		cartService,
		httpMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	go sessions.RunSweeper(ctx, sweepInterval)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
