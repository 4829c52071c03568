package dto

import (
	"time"

	"github.com/rivr-station-service/internal/domain"
)

// StationDataResult - payload станции и его происхождение
type StationDataResult struct {
	StationID  int64                 `json:"station_id"`
	APIData    domain.StationAPIData `json:"api_data" swaggertype:"object"`
	CachedAt   time.Time             `json:"cached_at"`
	Provenance domain.Provenance     `json:"provenance" swaggertype:"string" enums:"from_cache,from_network"`
	Stale      bool                  `json:"stale"`
}

// NewStationDataResult собирает результат из сохранённого payload
func NewStationDataResult(p *domain.CachedStationPayload, provenance domain.Provenance, stale bool) *StationDataResult {
	return &StationDataResult{
		StationID:  p.StationID,
		APIData:    p.APIData,
		CachedAt:   p.CachedAt,
		Provenance: provenance,
		Stale:      stale,
	}
}

// Payload возвращает результат в виде domain.CachedStationPayload
func (r *StationDataResult) Payload() *domain.CachedStationPayload {
	return &domain.CachedStationPayload{
		StationID: r.StationID,
		APIData:   r.APIData,
		CachedAt:  r.CachedAt,
	}
}
