package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentCreated  = "created"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment records one checkout attempt. OrderID is the provider's checkout
// session id, PaymentID the captured payment intent, Signature the verified
// webhook signature header that confirmed it.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID   string    `gorm:"size:255;not null;uniqueIndex" json:"order_id"`
	PaymentID string    `gorm:"size:255;index" json:"payment_id"`
	Signature string    `gorm:"size:512" json:"-"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:10;default:'usd'" json:"currency"`
	Status    string    `gorm:"size:20;not null;default:'created'" json:"status"`
	PlanID    string    `gorm:"size:50" json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
