package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/praveenks/lendbook/internal/adapter/http"
	"github.com/praveenks/lendbook/internal/adapter/http/handler"
	postgresRepo "github.com/praveenks/lendbook/internal/adapter/repository/postgres"
	redisRepo "github.com/praveenks/lendbook/internal/adapter/repository/redis"
	"github.com/praveenks/lendbook/internal/infrastructure/config"
	"github.com/praveenks/lendbook/internal/infrastructure/logger"
	"github.com/praveenks/lendbook/internal/infrastructure/metrics"
	"github.com/praveenks/lendbook/internal/infrastructure/postgres"
	"github.com/praveenks/lendbook/internal/infrastructure/redis"
	"github.com/praveenks/lendbook/internal/usecase"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Connect to PostgreSQL
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancelConnect()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Apply schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(connectCtx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	collectionRepo := postgresRepo.NewCollectionRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases. The reconciler and the collection use case
	// share one KeyLock so edits hold the loan lock across replay.
	locks := usecase.NewKeyLock()
	reconcileUC := usecase.NewReconcileUseCase(txManager, loanRepo, collectionRepo, retrier, locks, cache, m, log)
	collectionUC := usecase.NewCollectionUseCase(txManager, loanRepo, collectionRepo, reconcileUC, locks, idGen, cache, m)
	loanUC := usecase.NewLoanUseCase(loanRepo, idGen, cache, m)
	ledgerUC := usecase.NewLedgerUseCase(loanRepo, collectionRepo, cache, cfg.LedgerCacheTTL, m, log)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanUC, reconcileUC)
	collectionHandler := handler.NewCollectionHandler(collectionUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:       loanHandler,
		CollectionHandler: collectionHandler,
		LedgerHandler:     ledgerHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Logger:            log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
