package domain

import "time"

// FavoriteEntry - станция в избранном пользователя
type FavoriteEntry struct {
	UserID      string    `json:"user_id" db:"user_id"`
	StationID   int64     `json:"station_id" db:"station_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Color       *string   `json:"color,omitempty" db:"color"`
	ImgNumber   *int      `json:"img_number,omitempty" db:"img_number"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
