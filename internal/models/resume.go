package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Resume is an uploaded resume file plus its analysis output. FileKey and
// PreviewKey are object-storage keys; FileURL is the public (or base) URL of
// the original object.
type Resume struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	FileName   string         `gorm:"size:255;not null" json:"file_name"`
	FileKey    string         `gorm:"size:512;not null" json:"-"`
	PreviewKey string         `gorm:"size:512" json:"-"`
	FileSize   int64          `gorm:"not null" json:"file_size"`
	MimeType   string         `gorm:"size:100;not null" json:"mime_type"`
	FileURL    string         `gorm:"size:1024" json:"file_url"`
	PageCount  int            `gorm:"default:0" json:"page_count"`
	PreviewW   int            `gorm:"column:preview_width;default:0" json:"preview_width"`
	PreviewH   int            `gorm:"column:preview_height;default:0" json:"preview_height"`
	Analysis   datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"analysis"`
	Score      int            `gorm:"default:0" json:"score"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	User       User           `gorm:"foreignKey:UserID" json:"-"`
}
