package dto

import "github.com/rivr-station-service/internal/domain"

// PanelView - всё, что нужно информационной панели станции.
// Базовая информация присутствует и при ошибке загрузки.
type PanelView struct {
	StationID   int64               `json:"station_id"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
	Elevation   *float64            `json:"elevation,omitempty"`
	Name        *NameResponse       `json:"name"`
	Class       *string             `json:"class,omitempty"`
	Difficulty  *string             `json:"difficulty,omitempty"`
	Description *string             `json:"description,omitempty"`
	State       domain.FetchState   `json:"state"`
}
