package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"numrent-admin-core/config"
	"numrent-admin-core/internal/adapter/costfeed"
	httpHandler "numrent-admin-core/internal/adapter/http/handler"
	"numrent-admin-core/internal/adapter/notify"
	pgStorage "numrent-admin-core/internal/adapter/storage/postgres"
	redisStorage "numrent-admin-core/internal/adapter/storage/redis"
	"numrent-admin-core/internal/core/ports"
	"numrent-admin-core/internal/service"
	"numrent-admin-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting NumRent Admin Core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	pricingRepo := pgStorage.NewPricingRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Cost feed and last-known-cost cache
	costCache := redisStorage.NewCostCache(rdb)
	costFeed := costfeed.NewHTTPFeed(cfg.CostFeed, &http.Client{Timeout: cfg.CostFeed.Timeout}, log)

	// Notifiers: each is optional, the dispatcher fans out to the ones configured.
	var notifiers []ports.Notifier
	if cfg.Notify.WebhookURL != "" {
		webhookClient := &http.Client{Timeout: cfg.Notify.WebhookTimeout}
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.Notify.WebhookURL, webhookClient, log))
		log.Info().Str("url", cfg.Notify.WebhookURL).Msg("Webhook notifier enabled")
	}
	if len(cfg.Notify.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		defer kafkaNotifier.Close()
		notifiers = append(notifiers, kafkaNotifier)
		log.Info().Strs("brokers", cfg.Notify.KafkaBrokers).Str("topic", cfg.Notify.KafkaTopic).Msg("Kafka notifier enabled")
	}
	dispatcher := notify.NewDispatcher(log, notifiers...)

	// Initialize business services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	walletSvc := service.NewWalletService(accountRepo, ledgerRepo, auditRepo, dispatcher, transactor, cfg.Ledger, log)
	pricingSvc := service.NewPricingService(pricingRepo, auditRepo, costFeed, costCache, transactor, cfg.CostFeed.CacheTTL, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:     walletSvc,
		PricingSvc:    pricingSvc,
		AuditSvc:      auditSvc,
		TokenVerifier: tokenSvc,
		HealthCheckers: map[string]httpHandler.Pinger{
			"postgres": pool,
			"redis": httpHandler.PingerFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		},
		Logger: log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
