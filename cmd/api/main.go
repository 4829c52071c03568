package main

// @title Rivr Station Service API
// @version 1.0.0
// @description Сервис данных речных станций для карты и офлайн-режима.
// @description
// @description Основные возможности:
// @description - Данные станции из локального кеша, при промахе из удалённого API
// @description - Отображаемые имена станций с пользовательским переименованием
// @description - Избранные станции и их прогрев для работы без сети

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	_ "github.com/rivr-station-service/docs"
	"github.com/rivr-station-service/internal/config"
	httpDelivery "github.com/rivr-station-service/internal/delivery/http"
	"github.com/rivr-station-service/internal/delivery/http/handler"
	"github.com/rivr-station-service/internal/domain/repository"
	"github.com/rivr-station-service/internal/infrastructure/riverapi"
	"github.com/rivr-station-service/internal/pkg/logger"
	"github.com/rivr-station-service/internal/pkg/metrics"
	"github.com/rivr-station-service/internal/repository/cache"
	redisRepo "github.com/rivr-station-service/internal/repository/redis"
	"github.com/rivr-station-service/internal/repository/sqldb"
	"github.com/rivr-station-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Rivr Station Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("station_max_age", cfg.Cache.StationMaxAge),
	)

	// 3. Open local store and apply migrations
	db, err := sqldb.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx); err != nil {
		cancel()
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	cancel()

	// 4. Connect to Redis when the cache or the background sync needs it
	var redisClient *cache.Redis
	if cfg.Cache.Backend == config.CacheBackendRedis || cfg.Worker.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		switch {
		case err != nil && cfg.Cache.Backend == config.CacheBackendRedis:
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		case err != nil:
			log.Warn("Redis unavailable, background sync disabled", zap.Error(err))
		}
	}

	// 5. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 6. Initialize repositories
	var stationCacheRepo repository.StationCacheRepository = sqldb.NewStationCacheRepository(db)
	var publisher repository.EventPublisher
	if redisClient != nil {
		if cfg.Cache.Backend == config.CacheBackendRedis {
			stationCacheRepo = cache.NewStationCacheRepository(redisClient, cfg.Cache.RedisKeyPrefix)
		}
		publisher = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}
	nameRepo := sqldb.NewNameRepository(db)
	favoriteRepo := sqldb.NewFavoriteRepository(db)
	riverAPI := riverapi.NewRiverAPIClient(&cfg.RiverAPI, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	stationUC := usecase.NewStationDataUseCase(
		stationCacheRepo,
		riverAPI,
		metrics.NewStationCacheMetrics(registry),
		log,
		cfg.Cache.StationMaxAge,
		cfg.Cache.CoalesceInflight,
	)
	namesUC := usecase.NewDisplayNameUseCase(nameRepo, log)
	panelUC := usecase.NewStationPanelUseCase(stationUC, namesUC, log)
	favoriteUC := usecase.NewFavoriteUseCase(favoriteRepo, namesUC, publisher, log)
	syncUC := usecase.NewOfflineSyncUseCase(stationUC, favoriteRepo, publisher, log, cfg.Offline.RetryDelay)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	checks := map[string]handler.HealthChecker{"database": db}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	handlers := httpDelivery.Handlers{
		Station:  handler.NewStationHandler(stationUC, panelUC, log),
		Name:     handler.NewNameHandler(namesUC, log),
		Favorite: handler.NewFavoriteHandler(favoriteUC, syncUC, log),
		Health:   handler.NewHealthHandler(checks, log),
	}

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, handlers, registry)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close local store", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
