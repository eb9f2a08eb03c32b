package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"size:255" json:"name"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	GoogleID     *string        `gorm:"size:255;index" json:"-"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	Plan         string         `gorm:"size:20;default:'free'" json:"plan"`
	TrialUsed    int            `gorm:"default:0" json:"trial_used"`
	TrialMax     int            `gorm:"default:5" json:"trial_max"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// RemainingTrial reports how many free analyses are left. Never negative.
func (u *User) RemainingTrial() int {
	remaining := u.TrialMax - u.TrialUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TrialExhausted reports whether a free-plan user has no analyses left.
// Paid plans are never limited.
func (u *User) TrialExhausted() bool {
	return u.Plan == PlanFree && u.RemainingTrial() == 0
}
