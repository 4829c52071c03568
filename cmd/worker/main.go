package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/config"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/infrastructure/riverapi"
	"github.com/rivr-station-service/internal/pkg/logger"
	"github.com/rivr-station-service/internal/repository/cache"
	redisRepo "github.com/rivr-station-service/internal/repository/redis"
	"github.com/rivr-station-service/internal/repository/sqldb"
	"github.com/rivr-station-service/internal/usecase"
	"github.com/rivr-station-service/internal/worker"
	"github.com/rivr-station-service/internal/worker/prefetch"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Station Prefetch Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Duration("retry_delay", cfg.Offline.RetryDelay))

	// 3. Open local store
	db, err := sqldb.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close local store", zap.Error(err))
		}
	}()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	var stationCacheRepo repository.StationCacheRepository = sqldb.NewStationCacheRepository(db)
	if cfg.Cache.Backend == config.CacheBackendRedis {
		stationCacheRepo = cache.NewStationCacheRepository(redisClient, cfg.Cache.RedisKeyPrefix)
	}
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	favoriteRepo := sqldb.NewFavoriteRepository(db)
	riverAPI := riverapi.NewRiverAPIClient(&cfg.RiverAPI, log)

	// 6. Initialize use cases
	stationUC := usecase.NewStationDataUseCase(
		stationCacheRepo,
		riverAPI,
		nil,
		log,
		cfg.Cache.StationMaxAge,
		cfg.Cache.CoalesceInflight,
	)
	syncUC := usecase.NewOfflineSyncUseCase(stationUC, favoriteRepo, streamRepo, log, cfg.Offline.RetryDelay)

	// 7. Initialize workers
	prefetchWorker := prefetch.NewStationPrefetchWorker(
		streamRepo,
		syncUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.ClaimMinIdle,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(prefetchWorker)

	// 8. Start workers and wait for a shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// сначала Stop: текущий батч дообрабатывается и подтверждается
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
