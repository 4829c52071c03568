package domain

import (
	"time"

	"github.com/google/uuid"
)

// Имена стримов для офлайн-синхронизации
const (
	StreamStationRefresh   = "stream:station:refresh"
	StreamStationRefreshed = "stream:station:refreshed"
)

// Причины запроса обновления
const (
	RefreshReasonFavoriteAdded = "favorite_added"
	RefreshReasonUserSync      = "user_sync"
	RefreshReasonManual        = "manual"
)

// StationRefreshEvent - запрос на прогрев кеша станции
type StationRefreshEvent struct {
	RequestID   uuid.UUID `json:"request_id"`
	StationID   int64     `json:"station_id"`
	UserID      string    `json:"user_id,omitempty"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewStationRefreshEvent создает событие с новым RequestID
func NewStationRefreshEvent(stationID int64, userID, reason string) *StationRefreshEvent {
	return &StationRefreshEvent{
		RequestID:   uuid.New(),
		StationID:   stationID,
		UserID:      userID,
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
}

// Valid проверяет обязательные поля события
func (e *StationRefreshEvent) Valid() bool {
	return e != nil && e.RequestID != uuid.Nil && e.StationID > 0
}

// StationRefreshedEvent - результат прогрева
type StationRefreshedEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	StationID int64     `json:"station_id"`
	Success   bool      `json:"success"`
	ErrorCode string    `json:"error_code,omitempty"`
	CachedAt  time.Time `json:"cached_at,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
