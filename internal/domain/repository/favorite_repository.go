package repository

import (
	"context"

	"github.com/rivr-station-service/internal/domain"
)

// FavoriteRepository - избранные станции пользователей, ключ (user_id, station_id)
type FavoriteRepository interface {
	Upsert(ctx context.Context, fav *domain.FavoriteEntry) error

	// Get возвращает (nil, nil), если станции нет в избранном
	Get(ctx context.Context, userID string, stationID int64) (*domain.FavoriteEntry, error)

	ListByUser(ctx context.Context, userID string) ([]domain.FavoriteEntry, error)

	// Delete возвращает false, если удалять было нечего
	Delete(ctx context.Context, userID string, stationID int64) (bool, error)
}
