package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ElvisBoka/makuta-marketplace/internal/admin"
	"github.com/ElvisBoka/makuta-marketplace/internal/app"
	"github.com/ElvisBoka/makuta-marketplace/internal/auth"
	"github.com/ElvisBoka/makuta-marketplace/internal/categories"
	"github.com/ElvisBoka/makuta-marketplace/internal/favorites"
	"github.com/ElvisBoka/makuta-marketplace/internal/listings"
	"github.com/ElvisBoka/makuta-marketplace/internal/messages"
	"github.com/ElvisBoka/makuta-marketplace/internal/observability"
	"github.com/ElvisBoka/makuta-marketplace/internal/payments"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/cache"
	"github.com/ElvisBoka/makuta-marketplace/internal/platform/db"
	"github.com/ElvisBoka/makuta-marketplace/internal/reviews"
	"github.com/ElvisBoka/makuta-marketplace/internal/shared"
	"github.com/ElvisBoka/makuta-marketplace/internal/users"
	"github.com/ElvisBoka/makuta-marketplace/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)
	metrics := observability.NewMetrics()

	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, codec, auth.ServiceConfig{MinPasswordLen: cfg.MinPasswordLen})
	resolver := auth.NewResolver(codec, authRepo)
	authMW := auth.Middleware{Resolver: resolver, Logger: logger}
	authHandler := auth.NewHandler(logger, authService, authMW)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, authMW)

	categoriesRepo := categories.NewRepository(dbpool)
	categoriesCache := categories.NewCache(redisClient, cfg.CategoryCacheTTL)
	categoriesService := categories.NewService(categoriesRepo, categoriesCache)
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	listingsRepo := listings.NewRepository(dbpool)
	listingsService := listings.NewService(listingsRepo, cfg.ListingTTL)
	listingsHandler := listings.NewHandler(logger, listingsService, authMW)

	favoritesRepo := favorites.NewRepository(dbpool)
	favoritesService := favorites.NewService(favoritesRepo)
	favoritesHandler := favorites.NewHandler(logger, favoritesService, authMW)

	reviewsRepo := reviews.NewRepository(dbpool)
	reviewsService := reviews.NewService(reviewsRepo)
	reviewsHandler := reviews.NewHandler(logger, reviewsService, authMW)

	messagesRepo := messages.NewRepository(dbpool)
	messagesService := messages.NewService(messagesRepo)
	messagesHandler := messages.NewHandler(logger, messagesService, authMW)

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

	paymentsRepo := payments.NewRepository(dbpool)
	paymentsService := payments.NewService(payments.ServiceConfig{
		Repo:        paymentsRepo,
		Scheduler:   jobsClient,
		Approver:    listingsRepo,
		Idempotency: idempotencyStore,
		Observer:    metrics,
		SettleDelay: cfg.PaymentSettleDelay,
		Logger:      logger,
	})
	paymentsHandler := payments.NewHandler(logger, paymentsService, authMW)

	adminRepo := admin.NewRepository(dbpool)
	adminService := admin.NewService(adminRepo, listingsRepo, auditLogger)
	adminHandler := admin.NewHandler(logger, adminService, authMW)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		UsersHandler:      usersHandler,
		CategoriesHandler: categoriesHandler,
		ListingsHandler:   listingsHandler,
		FavoritesHandler:  favoritesHandler,
		ReviewsHandler:    reviewsHandler,
		MessagesHandler:   messagesHandler,
		PaymentsHandler:   paymentsHandler,
		AdminHandler:      adminHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
