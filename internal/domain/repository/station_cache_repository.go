package repository

import (
	"context"

	"github.com/rivr-station-service/internal/domain"
)

// StationCacheRepository - локальное хранилище payload станций
type StationCacheRepository interface {
	// Get возвращает payload или (nil, nil) при промахе.
	// Нечитаемая запись возвращается как ошибка, оборачивающая domain.ErrMalformedPayload.
	Get(ctx context.Context, stationID int64) (*domain.CachedStationPayload, error)

	// Put сохраняет payload, перезаписывая предыдущий
	Put(ctx context.Context, payload *domain.CachedStationPayload) error

	// Delete удаляет payload станции
	Delete(ctx context.Context, stationID int64) error
}
