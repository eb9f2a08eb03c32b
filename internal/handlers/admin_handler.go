package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/models"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := pageParams(c)

	var users []models.User
	var total int64
	h.db.Model(&models.User{}).Count(&total)

	if err := h.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"plan":       u.Plan,
			"trial_used": u.TrialUsed,
			"trial_max":  u.TrialMax,
			"role":       u.Role,
			"provider":   u.AuthProvider,
			"created_at": u.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"total": total, "users": out})
}

func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	limit, offset := pageParams(c)

	var payments []models.Payment
	if err := h.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
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

// SetUserPlan changes a user's plan and optionally resets the trial counter.
func (h *AdminHandler) SetUserPlan(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req struct {
		Plan       string `json:"plan"`
		ResetTrial bool   `json:"reset_trial"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Plan != models.PlanFree && req.Plan != models.PlanPro {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Plan must be free or pro",
		})
	}

	updates := map[string]interface{}{"plan": req.Plan}
	if req.ResetTrial {
		updates["trial_used"] = 0
	}

	res := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update user",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	return c.JSON(fiber.Map{"message": "User updated"})
}

func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
