package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/skywatch/apod-gateway/internal/apod/cache"
	"github.com/skywatch/apod-gateway/internal/apod/config"
	"github.com/skywatch/apod-gateway/internal/apod/domain"
	"github.com/skywatch/apod-gateway/internal/apod/events"
	"github.com/skywatch/apod-gateway/internal/apod/handler"
	"github.com/skywatch/apod-gateway/internal/apod/metrics"
	"github.com/skywatch/apod-gateway/internal/apod/repository"
	"github.com/skywatch/apod-gateway/internal/apod/service"
	"github.com/skywatch/apod-gateway/internal/apod/upstream"
	"github.com/skywatch/apod-gateway/pkg/validator"
)

func main() {
	// Load a local .env when present; deployments set real env vars.
	_ = godotenv.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.UsingDemoKey() {
		logger.Warn("NASA_API_KEY is not set, " +
			"falling back to the shared rate-limited demo key")
	}

	// Initialize cache backend
	var cacheLayer cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient := initRedis(cfg.Redis)
		defer redisClient.Close()
		cacheLayer = cache.NewRedisCache(redisClient)
	default:
		cacheLayer = cache.NewMemoryCache(time.Now)
	}

	// Initialize optional archive database
	var archive repository.Repository
	if cfg.Archive.Enabled {
		db, err := initDB(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()

		if err := runMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		archive = repository.NewPostgresRepository(db)
	}

	// Initialize optional Kafka publisher
	var publisher domain.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Fatal("Failed to initialize event publisher", zap.Error(err))
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	metricsCollector := metrics.NewPrometheusMetrics(registry)

	// Initialize upstream client and service
	client := upstream.NewNASAClient(cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey, cfg.Upstream.Timeout)

	apodService := service.NewAPODService(
		client,
		cacheLayer,
		archive,
		publisher,
		logger,
		metricsCollector,
		service.Config{
			CacheTTL: cfg.Cache.TTL,
		},
	)

	httpHandler := handler.NewHTTPHandler(apodService,
		validator.NewISODateValidator(), logger)
	router := setupHTTPRouter(httpHandler, registry, cfg.Server.StaticDir)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.Fatal("Server error", zap.Error(err))
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func initDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func setupHTTPRouter(handler *handler.HTTPHandler,
	registry *prometheus.Registry, staticDir string) *gin.Engine {

	router := gin.Default()

	// Register routes
	handler.RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Static front-end at the root path. gin cannot mount a wildcard on
	// "/" next to the API routes, so unmatched paths fall through to the
	// file server.
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))

	return router
}
