package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedPayload - сохранённый payload не удалось разобрать
var ErrMalformedPayload = errors.New("malformed station payload")

// Provenance - откуда получены данные станции
type Provenance string

const (
	FromCache   Provenance = "from_cache"
	FromNetwork Provenance = "from_network"
)

type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// StationRecord - станция в контексте запроса (тап по карте, избранное, поиск).
// Не хранится: используется как ключ для поиска закешированных данных.
type StationRecord struct {
	StationID   int64        `json:"station_id"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Elevation   *float64     `json:"elevation,omitempty"`
	InlineName  string       `json:"inline_name,omitempty"`
}

// FallbackName - имя станции, когда ни одно другое не известно
func FallbackName(stationID int64) string {
	return fmt.Sprintf("Stream %d", stationID)
}

// StationAPIData - данные станции из удалённого API. Схема не фиксирована,
// поэтому все известные поля необязательные, а неизвестные сохраняются в Extra.
type StationAPIData struct {
	Name        *string  `json:"name,omitempty"`
	Class       *string  `json:"class,omitempty"`
	Difficulty  *string  `json:"difficulty,omitempty"`
	Description *string  `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownAPIKeys = map[string]struct{}{
	"name": {}, "class": {}, "difficulty": {}, "description": {}, "latitude": {}, "longitude": {},
}

// APIName возвращает имя из API без пробелов по краям или "" если его нет
func (d *StationAPIData) APIName() string {
	if d == nil || d.Name == nil {
		return ""
	}
	return strings.TrimSpace(*d.Name)
}

// Coordinates возвращает координаты, если API прислал обе
func (d *StationAPIData) Coordinates() *Coordinates {
	if d == nil || d.Latitude == nil || d.Longitude == nil {
		return nil
	}
	return &Coordinates{Lat: *d.Latitude, Lon: *d.Longitude}
}

func (d *StationAPIData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("station payload must be a JSON object")
	}

	var out StationAPIData
	var err error
	if out.Name, err = optionalString(raw, "name"); err != nil {
		return err
	}
	if out.Class, err = optionalString(raw, "class"); err != nil {
		return err
	}
	if out.Difficulty, err = optionalString(raw, "difficulty"); err != nil {
		return err
	}
	if out.Description, err = optionalString(raw, "description"); err != nil {
		return err
	}
	if out.Latitude, err = optionalFloat(raw, "latitude"); err != nil {
		return err
	}
	if out.Longitude, err = optionalFloat(raw, "longitude"); err != nil {
		return err
	}

	for k, v := range raw {
		if _, known := knownAPIKeys[k]; known {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*d = out
	return nil
}

func (d StationAPIData) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+len(knownAPIKeys))
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.Name != nil {
		out["name"] = *d.Name
	}
	if d.Class != nil {
		out["class"] = *d.Class
	}
	if d.Difficulty != nil {
		out["difficulty"] = *d.Difficulty
	}
	if d.Description != nil {
		out["description"] = *d.Description
	}
	if d.Latitude != nil {
		out["latitude"] = *d.Latitude
	}
	if d.Longitude != nil {
		out["longitude"] = *d.Longitude
	}
	return json.Marshal(out)
}

func optionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return &s, nil
}

// optionalFloat принимает как число, так и строку с числом
func optionalFloat(raw map[string]json.RawMessage, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || isNull(v) {
		return nil, nil
	}

	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return &f, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, fmt.Errorf("field %q: expected number", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return &f, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// CachedStationPayload - закешированный ответ API для станции.
// Для одного StationID хранится не больше одной записи, запись перезаписывается.
type CachedStationPayload struct {
	StationID int64          `json:"station_id"`
	APIData   StationAPIData `json:"api_data"`
	CachedAt  time.Time      `json:"cached_at"`
}

// Valid проверяет, что payload пригоден для отдачи из кеша
func (p *CachedStationPayload) Valid() bool {
	return p != nil && p.StationID > 0 && !p.CachedAt.IsZero()
}

// ExpiredAt сообщает, старше ли запись maxAge; maxAge == 0 означает "не истекает"
func (p *CachedStationPayload) ExpiredAt(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(p.CachedAt) > maxAge
}
