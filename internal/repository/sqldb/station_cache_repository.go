package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
)

type stationCacheRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStationCacheRepository создает SQL хранилище payload станций
func NewStationCacheRepository(db *DB) repository.StationCacheRepository {
	return &stationCacheRepository{
		db:     db,
		logger: db.logger,
	}
}

type stationCacheRow struct {
	StationID int64     `db:"station_id"`
	APIData   string    `db:"api_data"`
	CachedAt  time.Time `db:"cached_at"`
}

func (r *stationCacheRepository) Get(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error) {
	query := r.db.Rebind(`SELECT station_id, api_data, cached_at FROM station_cache WHERE station_id = ?`)

	var row stationCacheRow
	err := r.db.GetContext(ctx, &row, query, stationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("query station cache: %w", err)
	}

	payload := &domain.CachedStationPayload{
		StationID: row.StationID,
		CachedAt:  row.CachedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(row.APIData), &payload.APIData); err != nil {
		r.logger.Warn("Stored station payload is malformed",
			zap.Int64("station_id", stationID),
			zap.Error(err))
		return nil, fmt.Errorf("station %d: %w: %v", stationID, domain.ErrMalformedPayload, err)
	}

	r.logger.Debug("Station cache hit", zap.Int64("station_id", stationID))
	return payload, nil
}

func (r *stationCacheRepository) Put(ctx context.Context, payload *domain.CachedStationPayload) error {
	data, err := json.Marshal(payload.APIData)
	if err != nil {
		return fmt.Errorf("marshal station payload: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO station_cache (station_id, api_data, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT (station_id) DO UPDATE SET
			api_data = excluded.api_data,
			cached_at = excluded.cached_at
	`)

	if _, err := r.db.ExecContext(ctx, query, payload.StationID, string(data), payload.CachedAt.UTC()); err != nil {
		r.logger.Error("Failed to store station payload",
			zap.Int64("station_id", payload.StationID),
			zap.Error(err))
		return fmt.Errorf("upsert station cache: %w", err)
	}

	r.logger.Debug("Station cache set", zap.Int64("station_id", payload.StationID))
	return nil
}

func (r *stationCacheRepository) Delete(ctx context.Context, stationID int64) error {
	query := r.db.Rebind(`DELETE FROM station_cache WHERE station_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, stationID); err != nil {
		return fmt.Errorf("delete station cache: %w", err)
	}
	return nil
}
