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

type favoriteRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFavoriteRepository создает SQL хранилище избранного
func NewFavoriteRepository(db *DB) repository.FavoriteRepository {
	return &favoriteRepository{
		db:     db,
		logger: db.logger,
	}
}

const favoriteColumns = `user_id, station_id, name, description, color, img_number, last_updated`

func (r *favoriteRepository) Upsert(ctx context.Context, fav *domain.FavoriteEntry) error {
	query := r.db.Rebind(`
		INSERT INTO favorites (` + favoriteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, station_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			img_number = excluded.img_number,
			last_updated = excluded.last_updated
	`)

	_, err := r.db.ExecContext(ctx, query,
		fav.UserID,
		fav.StationID,
		fav.Name,
		fav.Description,
		fav.Color,
		fav.ImgNumber,
		fav.LastUpdated.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to upsert favorite",
			zap.String("user_id", fav.UserID),
			zap.Int64("station_id", fav.StationID),
			zap.Error(err))
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Get(ctx context.Context, userID string, stationID int64) (*domain.FavoriteEntry, error) {
	query := r.db.Rebind(`SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = ? AND station_id = ?`)

	var fav domain.FavoriteEntry
	err := r.db.GetContext(ctx, &fav, query, userID, stationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query favorite: %w", err)
	}
	fav.LastUpdated = fav.LastUpdated.UTC()
	return &fav, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteEntry, error) {
	query := r.db.Rebind(`
		SELECT ` + favoriteColumns + `
		FROM favorites
		WHERE user_id = ?
		ORDER BY last_updated DESC, station_id
	`)

	favorites := make([]domain.FavoriteEntry, 0)
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	for i := range favorites {
		favorites[i].LastUpdated = favorites[i].LastUpdated.UTC()
	}
	return favorites, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID string, stationID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM favorites WHERE user_id = ? AND station_id = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, stationID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite rows affected: %w", err)
	}
	return affected > 0, nil
}
