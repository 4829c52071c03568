package repository

import (
	"context"

	"github.com/rivr-station-service/internal/domain"
)

// RiverAPIRepository - удалённый источник данных станций.
// Ошибки классифицированы: NETWORK_UNAVAILABLE, NETWORK_TIMEOUT, SERVER_ERROR, PARSE_ERROR.
type RiverAPIRepository interface {
	FetchStation(ctx context.Context, stationID int64) (*domain.StationAPIData, error)
}
