package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sarabun-oss/sarabun/internal/app"
	"github.com/sarabun-oss/sarabun/internal/convert"
	"github.com/sarabun-oss/sarabun/internal/jobs"
	"github.com/sarabun-oss/sarabun/internal/observability"
	"github.com/sarabun-oss/sarabun/internal/platform/cache"
	"github.com/sarabun-oss/sarabun/internal/platform/db"
	"github.com/sarabun-oss/sarabun/internal/render"
	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/sheet"
	"github.com/sarabun-oss/sarabun/internal/statecache"
	"github.com/sarabun-oss/sarabun/internal/travel"
	"github.com/sarabun-oss/sarabun/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	renderer, err := render.NewRenderer(cfg.OrgPrefix)
	if err != nil {
		logger.Error("load templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	metrics.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sheets := sheet.NewClient(cfg.SheetAPIURL, cfg.SheetAPIToken, cfg.SheetTimeout)
	shadows := shadow.NewStore(pool)
	listCache := statecache.New(redisClient, cfg.ListCacheTTL)

	travelSvc := travel.NewService(travel.ServiceConfig{
		Sheets:    sheets,
		Shadows:   shadows,
		Cache:     listCache,
		Queue:     jobs.NewQueue(asynqClient),
		Renderer:  renderer,
		Converter: convert.New(cfg.ConverterURL, cfg.ConverterTimeout),
		Metrics:   metrics,
		Logger:    logger,
	})

	router := app.NewRouter(app.RouterConfig{
		Middleware: app.MiddlewareConfig{
			Logger:  logger,
			Config:  cfg,
			Metrics: metrics,
		},
		Travel:      travel.NewHandler(travelSvc),
		Users:       users.NewHandler(users.NewService(sheets)),
		QueueHealth: jobs.NewHealth(cfg.RedisAddr),
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
