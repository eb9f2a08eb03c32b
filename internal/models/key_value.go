package models

import (
	"time"

	"github.com/google/uuid"
)

// KeyValue holds per-user settings. (user_id, key) is unique.
type KeyValue struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_key_values_user_key,priority:1" json:"user_id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_key_values_user_key,priority:2" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KeyValue) TableName() string {
	return "key_values"
}
