package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ElvisBoka/makuta-marketplace/internal/app"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/db"
	"github.com/ElvisBoka/makuta-marketplace/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	listingsRepo := listings.NewRepository(pool)
	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(payments.ServiceConfig{
		Repo:        paymentsRepo,
		Scheduler:   jobsClient,
		Approver:    listingsRepo,
		SettleDelay: cfg.PaymentSettleDelay,
		Logger:      logger,
	})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypePaymentSettle, Handler: jobs.NewPaymentSettleHandler(paymentsService, logger)},
			{Type: jobs.TaskTypeListingExpire, Handler: jobs.NewListingExpireHandler(listingsRepo, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewListingExpireTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
