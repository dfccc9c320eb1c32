package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sarabun-oss/sarabun/internal/app"
	"github.com/sarabun-oss/sarabun/internal/jobs"
	"github.com/sarabun-oss/sarabun/internal/platform/db"
	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/sheet"
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

	sheets := sheet.NewClient(cfg.SheetAPIURL, cfg.SheetAPIToken, cfg.SheetTimeout)
	handlers := jobs.NewHandlers(shadow.NewStore(pool), sheets, logger)
	server := jobs.NewServer(cfg.RedisAddr, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("worker started", slog.String("redis", cfg.RedisAddr))
		errCh <- server.Run(handlers.Mux())
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("worker error", slog.Any("error", err))
		}
	}
	server.Shutdown()
}
