package dto

import "github.com/google/uuid"

// AddFavoriteRequest - добавление станции в избранное.
// Если Name пустое, снимок имени берётся из резолвера по APIName/InlineName.
type AddFavoriteRequest struct {
	StationID   int64   `json:"station_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"max=200"`
	APIName     string  `json:"api_name" validate:"max=200"`
	InlineName  string  `json:"inline_name" validate:"max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=32"`
	ImgNumber   *int    `json:"img_number,omitempty" validate:"omitempty,min=0,max=1000"`
}

// UpdateFavoriteRequest - частичное обновление; пустая строка очищает поле
type UpdateFavoriteRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=32"`
	ImgNumber   *int    `json:"img_number,omitempty" validate:"omitempty,min=0,max=1000"`
}

// RenameFavoriteRequest - новое имя избранной станции
type RenameFavoriteRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// SyncOutcome - результат прогрева одной станции
type SyncOutcome struct {
	StationID int64  `json:"station_id"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Retried   bool   `json:"retried,omitempty"`
}

// SyncSummary - итог синхронизации избранного пользователя
type SyncSummary struct {
	UserID    string        `json:"user_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []SyncOutcome `json:"results"`
}

// SyncEnqueuedResponse - запросы прогрева, поставленные в очередь воркеру
type SyncEnqueuedResponse struct {
	UserID     string      `json:"user_id"`
	Enqueued   int         `json:"enqueued"`
	RequestIDs []uuid.UUID `json:"request_ids"`
}
