package domain

import (
	"strings"
	"time"
)

// NameInfo - отображаемое имя станции и последнее имя, полученное из API
type NameInfo struct {
	StationID       int64      `json:"station_id" db:"station_id"`
	DisplayName     string     `json:"display_name" db:"display_name"`
	OriginalAPIName string     `json:"original_api_name,omitempty" db:"original_api_name"`
	EditedAt        *time.Time `json:"edited_at,omitempty" db:"edited_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCustom - имя считается пользовательским, если оно отличается от известного имени из API
func (n *NameInfo) IsCustom() bool {
	return n.OriginalAPIName != "" && n.DisplayName != n.OriginalAPIName
}

// HasUserChoice - сохранённое имя должно побеждать имя из API
func (n *NameInfo) HasUserChoice() bool {
	if strings.TrimSpace(n.DisplayName) == "" {
		return false
	}
	return n.IsCustom() || n.EditedAt != nil
}
