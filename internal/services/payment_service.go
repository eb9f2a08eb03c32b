package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"
)

var (
	ErrUnknownPlan     = errors.New("unknown plan")
	ErrPaymentNotFound = errors.New("payment not found")
)

const (
	PlanProMonthly = "pro_monthly"
	PlanProYearly  = "pro_yearly"
)

type PaymentService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewPaymentService(db *gorm.DB, cfg *config.Config) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{db: db, cfg: cfg}
}

func (s *PaymentService) priceForPlan(planID string) (string, error) {
	switch planID {
	case PlanProMonthly:
		return s.cfg.StripePriceProMonth, nil
	case PlanProYearly:
		return s.cfg.StripePriceProYear, nil
	default:
		return "", ErrUnknownPlan
	}
}

// CreateCheckout starts a Stripe Checkout session for the plan and records
// the pending payment.
func (s *PaymentService) CreateCheckout(user *models.User, planID string) (*dto.CheckoutResponse, error) {
	priceID, err := s.priceForPlan(planID)
	if err != nil {
		return nil, err
	}
	if priceID == "" {
		return nil, errors.New("billing not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(user.ID.String()),
		CustomerEmail:     stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.FrontendURL + "/billing/success"),
		CancelURL:  stripe.String(s.cfg.FrontendURL + "/billing/cancel"),
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	payment := models.Payment{
		ID:       uuid.New(),
		UserID:   user.ID,
		OrderID:  sess.ID,
		Amount:   sess.AmountTotal,
		Currency: string(sess.Currency),
		Status:   models.PaymentCreated,
		PlanID:   planID,
	}
	if payment.Currency == "" {
		payment.Currency = "usd"
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &dto.CheckoutResponse{URL: sess.URL, OrderID: sess.ID}, nil
}

// eventTransition maps a webhook event type to the payment status to record
// and the plan the affected user moves to. Empty means unchanged; handled is
// false for event types that are acknowledged without side effects.
func eventTransition(eventType string) (status, plan string, handled bool) {
	switch eventType {
	case "checkout.session.completed":
		return models.PaymentPaid, models.PlanPro, true
	case "checkout.session.expired":
		return models.PaymentFailed, "", true
	case "customer.subscription.deleted":
		return "", models.PlanFree, true
	case "charge.refunded":
		return models.PaymentRefunded, "", true
	default:
		return "", "", false
	}
}

// HandleWebhook verifies the event signature, records the payment outcome
// and adjusts the user's plan.
func (s *PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.StripeWebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	status, plan, handled := eventTransition(string(event.Type))
	if !handled {
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("invalid checkout.session payload: %w", err)
		}
		return s.completeCheckout(&sess, sigHeader, status, plan)

	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("invalid checkout.session payload: %w", err)
		}
		return s.db.Model(&models.Payment{}).
			Where("order_id = ?", sess.ID).
			Update("status", status).Error

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("invalid subscription payload: %w", err)
		}
		return s.cancelSubscription(&sub, plan)

	default: // charge.refunded
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return fmt.Errorf("invalid charge payload: %w", err)
		}
		if charge.PaymentIntent == nil {
			return nil
		}
		return s.db.Model(&models.Payment{}).
			Where("payment_id = ?", charge.PaymentIntent.ID).
			Update("status", status).Error
	}
}

func (s *PaymentService) completeCheckout(sess *stripe.CheckoutSession, sigHeader, status, plan string) error {
	var payment models.Payment
	if err := s.db.Where("order_id = ?", sess.ID).First(&payment).Error; err != nil {
		return fmt.Errorf("%w: order %s", ErrPaymentNotFound, sess.ID)
	}

	paymentID := providerPaymentID(sess)

	updates := map[string]interface{}{
		"payment_id": paymentID,
		"signature":  sigHeader,
		"status":     status,
	}
	if sess.AmountTotal > 0 {
		updates["amount"] = sess.AmountTotal
	}
	if sess.Currency != "" {
		updates["currency"] = string(sess.Currency)
	}
	if err := s.db.Model(&payment).Updates(updates).Error; err != nil {
		return err
	}

	if err := s.db.Model(&models.User{}).
		Where("id = ?", payment.UserID).
		Update("plan", plan).Error; err != nil {
		return err
	}

	slog.Info("payment completed", "order_id", sess.ID, "user_id", payment.UserID, "plan", payment.PlanID)
	return nil
}

func (s *PaymentService) cancelSubscription(sub *stripe.Subscription, plan string) error {
	var payment models.Payment
	if err := s.db.Where("payment_id = ?", sub.ID).First(&payment).Error; err != nil {
		// Subscription never tied to a known payment; nothing to do.
		return nil
	}

	if err := s.db.Model(&models.User{}).
		Where("id = ?", payment.UserID).
		Update("plan", plan).Error; err != nil {
		return err
	}

	slog.Info("subscription cancelled", "user_id", payment.UserID)
	return nil
}

// providerPaymentID prefers the subscription id for recurring checkouts and
// falls back to the payment intent.
func providerPaymentID(sess *stripe.CheckoutSession) string {
	if sess.Subscription != nil && sess.Subscription.ID != "" {
		return sess.Subscription.ID
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		return sess.PaymentIntent.ID
	}
	return ""
}

// ListPayments returns a user's payment history, newest first.
func (s *PaymentService) ListPayments(userID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
