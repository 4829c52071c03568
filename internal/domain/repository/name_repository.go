package repository

import (
	"context"

	"github.com/rivr-station-service/internal/domain"
)

// NameRepository - хранилище NameInfo
type NameRepository interface {
	// GetNameInfo возвращает (nil, nil), если для станции ничего не сохранено
	GetNameInfo(ctx context.Context, stationID int64) (*domain.NameInfo, error)

	// PutNameInfo сохраняет запись целиком (last-writer-wins)
	PutNameInfo(ctx context.Context, info *domain.NameInfo) error
}
