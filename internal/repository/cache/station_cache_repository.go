package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
)

type stationCacheRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewStationCacheRepository создает Redis хранилище payload станций.
// Ключи не истекают: актуальность решает координатор по CachedAt.
func NewStationCacheRepository(r *Redis, keyPrefix string) repository.StationCacheRepository {
	if keyPrefix == "" {
		keyPrefix = "station"
	}
	return &stationCacheRepository{
		client: r.Client(),
		prefix: keyPrefix,
		logger: r.logger,
	}
}

func (r *stationCacheRepository) key(stationID int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, stationID)
}

func (r *stationCacheRepository) Get(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error) {
	key := r.key(stationID)
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var payload domain.CachedStationPayload
	if err := json.Unmarshal(val, &payload); err != nil {
		r.logger.Warn("Cached station payload is malformed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("station %d: %w: %v", stationID, domain.ErrMalformedPayload, err)
	}
	if payload.StationID != stationID {
		return nil, fmt.Errorf("station %d: %w: key holds station %d", stationID, domain.ErrMalformedPayload, payload.StationID)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return &payload, nil
}

func (r *stationCacheRepository) Put(ctx context.Context, payload *domain.CachedStationPayload) error {
	key := r.key(payload.StationID)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal station payload: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key))
	return nil
}

func (r *stationCacheRepository) Delete(ctx context.Context, stationID int64) error {
	key := r.key(stationID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}
