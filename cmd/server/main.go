package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/fleetbooks/fleetbooks/internal/adapter/http"
	"github.com/fleetbooks/fleetbooks/internal/adapter/http/handler"
	postgresRepo "github.com/fleetbooks/fleetbooks/internal/adapter/repository/postgres"
	redisRepo "github.com/fleetbooks/fleetbooks/internal/adapter/repository/redis"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/config"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/logger"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/metrics"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/postgres"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/redis"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "fleetbooks"})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	invoiceRepo := postgresRepo.NewInvoiceTotalsRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	accountRepo := redisRepo.NewCachedAccountDirectory(postgresRepo.NewAccountRepository(pool), cache)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo)
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, entryRepo, idGen, retrier)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, entryRepo)
	reconUC := usecase.NewReconciliationUseCase(accountRepo, entryRepo, invoiceRepo, cfg.ARAccountCode)

	// The posting use cases depend on a provisioned chart of accounts.
	// Refuse to start when it is incomplete instead of failing postings
	// one by one at runtime.
	if err := accountUC.VerifyChartOfAccounts(ctx); err != nil {
		log.Fatal().Err(err).Msg("chart of accounts is not provisioned")
	}

	m := metrics.New()

	// Handlers
	postingHandler := handler.NewPostingHandler(postingUC, m)
	accountHandler := handler.NewAccountHandler(accountUC, balanceUC, m)
	reconHandler := handler.NewReconciliationHandler(reconUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:        postingHandler,
		AccountHandler:        accountHandler,
		ReconciliationHandler: reconHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		Logger:                appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
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
