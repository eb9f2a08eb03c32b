package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResumeResponse struct {
	ID        uuid.UUID      `json:"id"`
	FileName  string         `json:"file_name"`
	FileSize  int64          `json:"file_size"`
	MimeType  string         `json:"mime_type"`
	FileURL   string         `json:"file_url"`
	PageCount int            `json:"page_count"`
	PreviewW  int            `json:"preview_width"`
	PreviewH  int            `json:"preview_height"`
	Score     int            `json:"score"`
	Analysis  datatypes.JSON `json:"analysis,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

type UsageResponse struct {
	Plan      string `json:"plan"`
	TrialUsed int    `json:"trial_used"`
	TrialMax  int    `json:"trial_max"`
	Remaining int    `json:"remaining"`
}
