package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/middleware"
	"github.com/resumely/backend/internal/models"
	"github.com/resumely/backend/internal/services"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	db             *gorm.DB
}

func NewPaymentHandler(paymentService *services.PaymentService, db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, db: db}
}

// Checkout starts a Stripe Checkout session for the requested plan.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	resp, err := h.paymentService.CreateCheckout(&user, req.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown plan",
			})
		}
		slog.Error("checkout failed", "user_id", userID, "plan", req.PlanID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to start checkout",
		})
	}

	return c.JSON(resp)
}

// Webhook receives Stripe events. The raw body and the Stripe-Signature
// header go to the service untouched so signature verification can work.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	payload := c.Body()
	sig := c.Get("Stripe-Signature")

	if err := h.paymentService.HandleWebhook(payload, sig); err != nil {
		slog.Error("stripe webhook rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhook rejected",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// ListPayments returns the caller's payment history.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	payments, err := h.paymentService.ListPayments(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list payments",
		})
	}

	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.PaymentResponse{
			ID:        p.ID,
			OrderID:   p.OrderID,
			PaymentID: p.PaymentID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Status:    p.Status,
			PlanID:    p.PlanID,
			CreatedAt: p.CreatedAt,
		})
	}
	return c.JSON(out)
}
