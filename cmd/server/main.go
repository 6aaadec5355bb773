package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/labelpay/labelpay/internal/adapter/http"
	"github.com/labelpay/labelpay/internal/adapter/http/handler"
	"github.com/labelpay/labelpay/internal/adapter/http/middleware"
	postgresRepo "github.com/labelpay/labelpay/internal/adapter/repository/postgres"
	redisRepo "github.com/labelpay/labelpay/internal/adapter/repository/redis"
	"github.com/labelpay/labelpay/internal/adapter/shipping"
	"github.com/labelpay/labelpay/internal/infrastructure/auth"
	"github.com/labelpay/labelpay/internal/infrastructure/config"
	"github.com/labelpay/labelpay/internal/infrastructure/logger"
	"github.com/labelpay/labelpay/internal/infrastructure/metrics"
	"github.com/labelpay/labelpay/internal/infrastructure/postgres"
	"github.com/labelpay/labelpay/internal/infrastructure/redis"
	"github.com/labelpay/labelpay/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "labelpay-server"})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	maxCredit, err := decimal.NewFromString(cfg.MaxCreditAmount)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.MaxCreditAmount).Msg("invalid MAX_CREDIT_AMOUNT")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	shipmentRepo := postgresRepo.NewShipmentRepository(pool)
	batchRepo := postgresRepo.NewBatchRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	rateCache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Shipping provider with a Redis-backed rate quote cache
	providerClient := shipping.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout, appLogger)
	provider := shipping.NewCachingProvider(providerClient, rateCache, appLogger)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	creditUC := usecase.NewCreditUseCase(txManager, accountRepo, txnRepo, idGen, maxCredit)
	ledgerUC := usecase.NewLedgerUseCase(txnRepo, accountRepo)
	labelUC := usecase.NewLabelUseCase(txManager, accountRepo, txnRepo, shipmentRepo, provider, idGen, appLogger)
	batchUC := usecase.NewBatchUseCase(batchRepo, shipmentRepo, accountRepo, labelUC, idGen)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo)

	created, err := accountUC.EnsureRootAccount(ctx, cfg.RootEmail, cfg.RootPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure root account")
	}
	if created {
		appLogger.Warn().Str("email", cfg.RootEmail).Msg("root super admin created; rotate its password now")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:           handler.NewAuthHandler(accountUC, jwtManager, appLogger),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		CreditHandler:         handler.NewCreditHandler(creditUC, retrier),
		TransactionHandler:    handler.NewTransactionHandler(ledgerUC),
		ShipmentHandler:       handler.NewShipmentHandler(labelUC),
		BatchHandler:          handler.NewBatchHandler(batchUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),

		JWTManager:       jwtManager,
		AccountRepo:      accountRepo,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Metrics:          appMetrics,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, appMetrics),
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
