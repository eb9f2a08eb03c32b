package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/middleware"
	"github.com/resumely/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueHandler exposes per-user settings as a small string key-value
// store. Keys are scoped to the authenticated user.
type KeyValueHandler struct {
	db *gorm.DB
}

func NewKeyValueHandler(db *gorm.DB) *KeyValueHandler {
	return &KeyValueHandler{db: db}
}

func (h *KeyValueHandler) Get(c *fiber.Ctx) error {
	userID, key, ok := h.scope(c)
	if !ok {
		return nil
	}

	var kv models.KeyValue
	if err := h.db.Where("user_id = ? AND key = ?", userID, key).First(&kv).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Key not found",
		})
	}

	return c.JSON(dto.KeyValueResponse{Key: kv.Key, Value: kv.Value})
}

// Set upserts the value for the key.
func (h *KeyValueHandler) Set(c *fiber.Ctx) error {
	userID, key, ok := h.scope(c)
	if !ok {
		return nil
	}

	var body struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	kv := models.KeyValue{
		ID:     uuid.New(),
		UserID: userID,
		Key:    key,
		Value:  body.Value,
	}
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save value",
		})
	}

	return c.JSON(dto.KeyValueResponse{Key: key, Value: body.Value})
}

func (h *KeyValueHandler) Delete(c *fiber.Ctx) error {
	userID, key, ok := h.scope(c)
	if !ok {
		return nil
	}

	res := h.db.Where("user_id = ? AND key = ?", userID, key).Delete(&models.KeyValue{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete key",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Key not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Key deleted"})
}

// List returns all of the caller's keys.
func (h *KeyValueHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var rows []models.KeyValue
	if err := h.db.Where("user_id = ?", userID).Order("key ASC").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list keys",
		})
	}

	out := make([]dto.KeyValueResponse, 0, len(rows))
	for _, kv := range rows {
		out = append(out, dto.KeyValueResponse{Key: kv.Key, Value: kv.Value})
	}
	return c.JSON(out)
}

func (h *KeyValueHandler) scope(c *fiber.Ctx) (uuid.UUID, string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, "", false
	}

	key := c.Params("key")
	if key == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key is required",
		})
		return uuid.Nil, "", false
	}

	return userID, key, true
}
