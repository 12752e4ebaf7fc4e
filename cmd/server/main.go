package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharekit/internal/api"
	"sharekit/internal/config"
	"sharekit/internal/database"
	"sharekit/internal/domain"
	"sharekit/internal/events"
	"sharekit/internal/logging"
	"sharekit/internal/metrics"
	"sharekit/internal/repository"
	"sharekit/internal/service"
	"sharekit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportWorker := startExportWorker(ctx, cfg, db, redisClient, &logger)

	bus := events.NewEventBus()
	subscribeAuditLog(bus, &logger)
	services := api.Services{
		Users:    service.NewUserService(db, &logger),
		Items:    service.NewItemService(db, bus, &logger),
		Bookings: service.NewBookingService(db, bus, exportWorker, &logger),
		Requests: service.NewRequestService(db, &logger),
	}

	httpServer := api.NewHTTPServer(cfg.Server, cfg.RateLimit, services,
		buildRateLimitRepository(redisClient, &logger), &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildRateLimitRepository предпочитает Redis с откатом на внутрипроцессный
// счетчик, а без Redis обходится только им.
func buildRateLimitRepository(redisClient *redis.Client, logger *zerolog.Logger) domain.RateLimitRepository {
	memory := repository.NewMemoryRateLimitRepository()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverRateLimitRepository(
		repository.NewRedisRateLimitRepository(redisClient), memory, logger)
}

// subscribeAuditLog пишет каждое доменное событие в журнал.
func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	audit := logger.With().Str("component", "audit").Logger()
	handler := func(event *events.Event) error {
		audit.Info().
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}

	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentAdded,
		events.EventItemCreated,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func startExportWorker(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	redisClient *redis.Client,
	logger *zerolog.Logger,
) *worker.ExportWorker {
	exporter := worker.NewExcelReportExporter(cfg.Exports.Path, logger)
	exportWorker := worker.NewExportWorker(db, exporter, redisClient, worker.RetryPolicy{}, nil)
	go exportWorker.Start(ctx)
	logger.Info().Str("dir", cfg.Exports.Path).Msg("export worker started")
	return exportWorker
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
