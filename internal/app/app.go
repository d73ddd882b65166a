// Package app wires the catalog service together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/shopfable/catalog/internal/cache"
	"github.com/shopfable/catalog/internal/config"
	"github.com/shopfable/catalog/internal/event"
	handler "github.com/shopfable/catalog/internal/handler/http"
	"github.com/shopfable/catalog/internal/repository"
	"github.com/shopfable/catalog/internal/repository/memory"
	pgrepo "github.com/shopfable/catalog/internal/repository/postgres"
	"github.com/shopfable/catalog/internal/service"
	"github.com/shopfable/catalog/migrations"
	"github.com/shopfable/catalog/pkg/database"
	"github.com/shopfable/catalog/pkg/health"
	pkgkafka "github.com/shopfable/catalog/pkg/kafka"
	"github.com/shopfable/catalog/pkg/middleware"
	"github.com/shopfable/catalog/pkg/tracing"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool            *pgxpool.Pool
	redisClient     *redis.Client
	producer        *pkgkafka.Producer
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "catalog",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = shutdown

	healthHandler := health.NewHandler()

	// Store backend.
	var (
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		tagRepo      repository.TagRepository
	)
	switch cfg.StoreBackend {
	case "memory":
		store := memory.NewStore()
		productRepo = store.Products()
		categoryRepo = store.Categories()
		tagRepo = store.Tags()
		logger.Info("in-memory catalog store initialized")
	default:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init postgres pool: %w", err)
		}
		a.pool = pool

		if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		prometheus.MustRegister(database.NewPoolStatsCollector(pool, "catalog"))
		healthHandler.Register("postgres", pool.Ping)

		productRepo = pgrepo.NewProductRepository(pool)
		categoryRepo = pgrepo.NewCategoryRepository(pool)
		tagRepo = pgrepo.NewTagRepository(pool)
		logger.Info("postgres catalog store initialized",
			slog.String("host", pgCfg.Host),
			slog.String("database", pgCfg.DBName),
		)
	}

	// Search cache.
	var searchCache cache.SearchCache = cache.NoopSearchCache{}
	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("init redis client: %w", err)
		}
		a.redisClient = client
		searchCache = cache.NewRedisSearchCache(client, cfg.SearchCacheTTL)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("redis search cache initialized", slog.String("addr", cfg.Redis().Addr()))
	}

	// Event publishing.
	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	producer := event.NewProducer(a.producer, logger)
	healthHandler.Register("kafka", a.producer.Ping)

	// Services.
	productService := service.NewProductService(productRepo, categoryRepo, tagRepo, searchCache, producer, logger)
	categoryService := service.NewCategoryService(categoryRepo, searchCache, producer, logger)
	tagService := service.NewTagService(tagRepo, producer, logger)

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(productService, categoryService, tagService, healthHandler, handler.RouterConfig{
		CORS:       corsCfg,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
