package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/middleware"
	"github.com/resumely/backend/internal/models"
	"github.com/resumely/backend/internal/services"
	"github.com/resumely/backend/internal/storage"
)

type ResumeHandler struct {
	resumeService *services.ResumeService
}

func NewResumeHandler(resumeService *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// Upload accepts a multipart "file" field containing a PDF resume.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A 'file' form field is required",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	resume, err := h.resumeService.Upload(c.Context(), userID, fileHeader.Filename, mimeType, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedType):
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrFileTooLarge):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTrialExhausted):
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Error: true, Message: "Free trial exhausted. Upgrade to keep analyzing resumes.",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to process resume",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(toResumeResponse(resume))
}

func (h *ResumeHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resumes, err := h.resumeService.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list resumes",
		})
	}

	out := make([]dto.ResumeResponse, 0, len(resumes))
	for i := range resumes {
		out = append(out, toResumeResponse(&resumes[i]))
	}
	return c.JSON(out)
}

func (h *ResumeHandler) Get(c *fiber.Ctx) error {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return nil
	}

	resume, err := h.resumeService.Get(userID, resumeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Resume not found",
		})
	}

	return c.JSON(toResumeResponse(resume))
}

// Preview streams the first-page PNG preview.
func (h *ResumeHandler) Preview(c *fiber.Ctx) error {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return nil
	}

	png, err := h.resumeService.Preview(c.Context(), userID, resumeID)
	if err != nil {
		if errors.Is(err, services.ErrResumeNotFound) || errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Preview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load preview",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Send(png)
}

// SignedURL returns a short-lived download link for the original PDF.
func (h *ResumeHandler) SignedURL(c *fiber.Ctx) error {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return nil
	}

	url, expiry, err := h.resumeService.SignedURL(c.Context(), userID, resumeID)
	if err != nil {
		if errors.Is(err, services.ErrResumeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to sign download URL",
		})
	}

	return c.JSON(dto.SignedURLResponse{URL: url, ExpiresIn: int(expiry.Seconds())})
}

func (h *ResumeHandler) Delete(c *fiber.Ctx) error {
	userID, resumeID, ok := h.ids(c)
	if !ok {
		return nil
	}

	if err := h.resumeService.Delete(c.Context(), userID, resumeID); err != nil {
		if errors.Is(err, services.ErrResumeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete resume",
		})
	}

	return c.JSON(fiber.Map{"message": "Resume deleted"})
}

// Usage reports the caller's plan and remaining free-trial analyses.
func (h *ResumeHandler) Usage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.resumeService.Usage(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	return c.JSON(dto.UsageResponse{
		Plan:      user.Plan,
		TrialUsed: user.TrialUsed,
		TrialMax:  user.TrialMax,
		Remaining: user.RemainingTrial(),
	})
}

// ids pulls the caller and the :id path parameter; on failure the response
// has already been written and ok is false.
func (h *ResumeHandler) ids(c *fiber.Ctx) (userID, resumeID uuid.UUID, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, uuid.Nil, false
	}

	resumeID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid resume id",
		})
		return uuid.Nil, uuid.Nil, false
	}

	return userID, resumeID, true
}

func toResumeResponse(r *models.Resume) dto.ResumeResponse {
	return dto.ResumeResponse{
		ID:        r.ID,
		FileName:  r.FileName,
		FileSize:  r.FileSize,
		MimeType:  r.MimeType,
		FileURL:   r.FileURL,
		PageCount: r.PageCount,
		PreviewW:  r.PreviewW,
		PreviewH:  r.PreviewH,
		Score:     r.Score,
		Analysis:  r.Analysis,
		CreatedAt: r.CreatedAt,
	}
}
