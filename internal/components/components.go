package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"lapor/internal/api"
	"lapor/internal/api/handlers/http/reports"
	"lapor/internal/api/handlers/http/suggestions"
	"lapor/internal/api/handlers/http/system"
	"lapor/internal/api/handlers/http/users"
	"lapor/internal/config"
	"lapor/internal/lifecycle"
	"lapor/internal/metrics"
	"lapor/internal/redis"
	"lapor/internal/service"
	"lapor/internal/storage/postgres"
	"lapor/internal/workers"
	"lapor/pkg/logger"
)

type Components struct {
	logger       *slog.Logger
	HttpServer   *api.Server
	Postgres     *postgres.Postgres
	Redis        *redis.Redis
	AuditQ       *redis.AuditQueue
	AuditWriter  *workers.AuditWriter
	PoolReporter *workers.PoolReporter
	Metrics      *metrics.Metrics
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	m := metrics.NewDefault()

	auditQueue := redis.NewAuditQueue(redisClient.Client, cfg.Audit.QueueKey)
	reportCache := redis.NewReportCache(redisClient, cfg.Cache.ListTTL)
	suggestionCache := redis.NewSuggestionCache(redisClient, cfg.Cache.ListTTL)

	reportEngine := lifecycle.NewReportEngine(cfg.Lifecycle.ReportAllowReopen)
	suggestionEngine := lifecycle.NewSuggestionEngine()

	reportSvc := service.NewReportService(logger, storage.Reports(), storage.History(), reportCache, auditQueue, reportEngine, m)
	suggestionSvc := service.NewSuggestionService(logger, storage.Suggestions(), storage.History(), suggestionCache, auditQueue, suggestionEngine, m)
	profileSvc := service.NewProfileService(logger, storage.Profiles())

	srv := service.NewService(reportSvc, suggestionSvc, profileSvc)

	handlers := api.Handlers{
		Reports:     reports.NewHandler(logger, srv.Reports),
		Suggestions: suggestions.NewHandler(logger, srv.Suggestions),
		Users:       users.NewHandler(logger, srv.Profiles),
		System: system.NewHandler(logger,
			system.Checker{Name: "postgres", Ping: storage.Pool.Ping},
			system.Checker{Name: "redis", Ping: redisClient.Ping},
		),
	}

	httpServer := api.NewServer(ctx, cfg, logger, handlers, srv.Profiles, m)
	logger.Info("Initialized server")

	return &Components{
		logger:       logger,
		HttpServer:   httpServer,
		Postgres:     storage,
		Redis:        redisClient,
		AuditQ:       auditQueue,
		AuditWriter:  workers.NewAuditWriter(logger, auditQueue, storage.History(), m, cfg.Audit.PopTimeout),
		PoolReporter: workers.NewPoolReporter(storage.Pool, m, 15*time.Second),
		Metrics:      m,
	}, nil
}

// RunWorkers starts the background workers and returns once all of them have
// stopped after ctx is cancelled.
func (c *Components) RunWorkers(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.AuditWriter.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		c.PoolReporter.Run(ctx)
	}()
	wg.Wait()
	c.logger.Info("workers stopped")
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
