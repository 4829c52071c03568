package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ParseStationID разбирает идентификатор станции из пути запроса
func ParseStationID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse station id %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("station id must be positive, got %d", id)
	}
	return id, nil
}

// OptionalFloat разбирает необязательное числовое значение из query
func OptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
