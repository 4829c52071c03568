package dto

import (
	"time"

	"github.com/rivr-station-service/internal/domain"
)

// Источник выбранного отображаемого имени
const (
	NameSourceCustom   = "custom"
	NameSourceAPI      = "api"
	NameSourceInline   = "inline"
	NameSourceFallback = "fallback"
)

// ResolveNameRequest - запрос на вычисление отображаемого имени
type ResolveNameRequest struct {
	APIName    string `json:"api_name" query:"api_name" validate:"max=200"`
	InlineName string `json:"inline_name" query:"inline_name" validate:"max=200"`
}

// SetNameRequest - пользовательское имя станции
type SetNameRequest struct {
	DisplayName string `json:"display_name" validate:"max=200"`
}

// NameResponse - отображаемое имя станции
type NameResponse struct {
	StationID       int64      `json:"station_id"`
	DisplayName     string     `json:"display_name"`
	OriginalAPIName string     `json:"original_api_name,omitempty"`
	IsCustom        bool       `json:"is_custom"`
	Source          string     `json:"source,omitempty" enums:"custom,api,inline,fallback"`
	EditedAt        *time.Time `json:"edited_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// NewNameResponse строит ответ из сохранённой записи
func NewNameResponse(info *domain.NameInfo) *NameResponse {
	resp := &NameResponse{
		StationID:       info.StationID,
		DisplayName:     info.DisplayName,
		OriginalAPIName: info.OriginalAPIName,
		IsCustom:        info.IsCustom(),
		EditedAt:        info.EditedAt,
	}
	if info.HasUserChoice() {
		resp.Source = NameSourceCustom
	} else if info.OriginalAPIName != "" && info.DisplayName == info.OriginalAPIName {
		resp.Source = NameSourceAPI
	}
	if !info.UpdatedAt.IsZero() {
		updatedAt := info.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
