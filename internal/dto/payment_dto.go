package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	PlanID string `json:"plan_id"` // pro_monthly or pro_yearly
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}

type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	PlanID    string    `json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
}

type KeyValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
