package model

import "time"

// Snapshot — сохранённое состояние сессии (набор мэтчей, рейтинги) под ключом.
type Snapshot struct {
	Key       string    `gorm:"column:snapshot_key;primaryKey;type:varchar(128)"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
