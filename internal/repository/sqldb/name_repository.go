package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/domain"
	"github.com/rivr-station-service/internal/domain/repository"
)

type nameRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewNameRepository создает SQL хранилище NameInfo
func NewNameRepository(db *DB) repository.NameRepository {
	return &nameRepository{
		db:     db,
		logger: db.logger,
	}
}

func (r *nameRepository) GetNameInfo(ctx context.Context, stationID int64) (*domain.NameInfo, error) {
	query := r.db.Rebind(`
		SELECT station_id, display_name, original_api_name, edited_at, updated_at
		FROM station_names
		WHERE station_id = ?
	`)

	var info domain.NameInfo
	err := r.db.GetContext(ctx, &info, query, stationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query station name: %w", err)
	}

	info.UpdatedAt = info.UpdatedAt.UTC()
	if info.EditedAt != nil {
		editedAt := info.EditedAt.UTC()
		info.EditedAt = &editedAt
	}
	return &info, nil
}

func (r *nameRepository) PutNameInfo(ctx context.Context, info *domain.NameInfo) error {
	query := r.db.Rebind(`
		INSERT INTO station_names (station_id, display_name, original_api_name, edited_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (station_id) DO UPDATE SET
			display_name = excluded.display_name,
			original_api_name = excluded.original_api_name,
			edited_at = excluded.edited_at,
			updated_at = excluded.updated_at
	`)

	var editedAt interface{}
	if info.EditedAt != nil {
		editedAt = info.EditedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		info.StationID,
		info.DisplayName,
		info.OriginalAPIName,
		editedAt,
		info.UpdatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to store station name",
			zap.Int64("station_id", info.StationID),
			zap.Error(err))
		return fmt.Errorf("upsert station name: %w", err)
	}
	return nil
}
