package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorial-platform/internal/config"
	"memorial-platform/internal/domain/ports/adapter"
	pg "memorial-platform/internal/infra/db/postgres"
	"memorial-platform/internal/infra/logging"
	"memorial-platform/internal/infra/metrics"
	"memorial-platform/internal/infra/notify"
	red "memorial-platform/internal/infra/redis"
	"memorial-platform/internal/infra/sched"
	"memorial-platform/internal/infra/web"
	"memorial-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	planSetCache := red.NewPlanSetCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	txRepo := pg.NewTransactionRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Notifier ----
	var notifier adapter.AdminNotifier
	if cfg.Notify.TelegramToken != "" && len(cfg.Notify.AdminChatIDs) > 0 {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.AdminChatIDs, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
	} else {
		logger.Warn().Msg("no telegram token configured; admin notifications disabled")
		notifier = notify.NewNoopNotifier()
	}

	// ---- Use cases ----
	entUC := usecase.NewEntitlementUseCase(subRepo, planSetCache)
	subUC := usecase.NewSubscriptionUseCase(subRepo, planSetCache)
	txUC := usecase.NewTransactionUseCase(txRepo, subRepo, txManager, notifier, planSetCache, cfg.Billing.Currency, logger)

	// ---- HTTP server ----
	srv := web.NewServer(entUC, subUC, txUC, rateLimiter, web.Options{
		JWTSecret:      cfg.Server.JWTSecret,
		SubmitLimit:    cfg.Billing.SubmitLimit,
		SubmitWindow:   cfg.Billing.SubmitWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Worker.ExpiryInterval, subUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
