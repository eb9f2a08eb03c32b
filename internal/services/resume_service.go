package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/resumely/backend/internal/analysis"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/models"
	"github.com/resumely/backend/internal/preview"
	"github.com/resumely/backend/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTrialExhausted  = errors.New("free trial exhausted")
	ErrUnsupportedType = errors.New("only PDF resumes are supported")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrResumeNotFound  = errors.New("resume not found")
)

type ResumeService struct {
	db        *gorm.DB
	cfg       *config.Config
	store     *storage.Store
	generator *preview.Generator
}

func NewResumeService(db *gorm.DB, cfg *config.Config, store *storage.Store) *ResumeService {
	return &ResumeService{
		db:        db,
		cfg:       cfg,
		store:     store,
		generator: preview.NewGenerator(),
	}
}

// Upload stores the original PDF and its preview, analyzes the text and
// persists the resume row, consuming one trial use for free-plan users.
// The quota is re-checked under a row lock right before commit.
func (s *ResumeService) Upload(ctx context.Context, userID uuid.UUID, fileName, mimeType string, data []byte) (*models.Resume, error) {
	if mimeType != "application/pdf" {
		return nil, ErrUnsupportedType
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}

	// Cheap early check before touching storage. The authoritative check
	// happens again inside the transaction.
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if user.TrialExhausted() {
		return nil, ErrTrialExhausted
	}

	resumeID := uuid.New()
	fileKey := fmt.Sprintf("resumes/%s/%s.pdf", userID, resumeID)
	previewKey := fmt.Sprintf("previews/%s/%s.png", userID, resumeID)

	fileURL, err := s.store.Upload(ctx, fileKey, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	result, err := s.generator.Generate(ctx, data)
	if err != nil {
		s.cleanup(ctx, fileKey)
		return nil, fmt.Errorf("preview failed: %w", err)
	}

	if _, err := s.store.Upload(ctx, previewKey, "image/png", result.PNG); err != nil {
		s.cleanup(ctx, fileKey)
		return nil, fmt.Errorf("store preview: %w", err)
	}

	report := analysis.Analyze(result.Text)
	payload, err := json.Marshal(report)
	if err != nil {
		payload = []byte("{}")
	}

	resume := models.Resume{
		ID:         resumeID,
		UserID:     userID,
		FileName:   fileName,
		FileKey:    fileKey,
		PreviewKey: previewKey,
		FileSize:   int64(len(data)),
		MimeType:   mimeType,
		FileURL:    fileURL,
		PageCount:  result.PageCount,
		PreviewW:   result.Width,
		PreviewH:   result.Height,
		Analysis:   datatypes.JSON(payload),
		Score:      report.Score,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", userID).Error; err != nil {
			return ErrUserNotFound
		}
		if locked.TrialExhausted() {
			return ErrTrialExhausted
		}
		if locked.Plan == models.PlanFree {
			if err := tx.Model(&locked).Update("trial_used", gorm.Expr("trial_used + 1")).Error; err != nil {
				return err
			}
		}
		return tx.Create(&resume).Error
	})
	if err != nil {
		s.cleanup(ctx, fileKey, previewKey)
		return nil, err
	}

	return &resume, nil
}

func (s *ResumeService) List(userID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error
	return resumes, err
}

func (s *ResumeService) Get(userID, resumeID uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := s.db.Where("id = ? AND user_id = ?", resumeID, userID).First(&resume).Error; err != nil {
		return nil, ErrResumeNotFound
	}
	return &resume, nil
}

// Preview returns the PNG bytes of the resume's preview image.
func (s *ResumeService) Preview(ctx context.Context, userID, resumeID uuid.UUID) ([]byte, error) {
	resume, err := s.Get(userID, resumeID)
	if err != nil {
		return nil, err
	}
	if resume.PreviewKey == "" {
		return nil, ErrResumeNotFound
	}
	return s.store.Download(ctx, resume.PreviewKey)
}

// SignedURL returns a short-lived download URL for the original file.
func (s *ResumeService) SignedURL(ctx context.Context, userID, resumeID uuid.UUID) (string, time.Duration, error) {
	resume, err := s.Get(userID, resumeID)
	if err != nil {
		return "", 0, err
	}
	url, err := s.store.SignedURL(ctx, resume.FileKey, s.cfg.SignedURLExpiry)
	if err != nil {
		return "", 0, err
	}
	return url, s.cfg.SignedURLExpiry, nil
}

// Delete removes the resume row; storage objects are deleted best-effort.
func (s *ResumeService) Delete(ctx context.Context, userID, resumeID uuid.UUID) error {
	resume, err := s.Get(userID, resumeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(resume).Error; err != nil {
		return err
	}

	s.cleanup(ctx, resume.FileKey, resume.PreviewKey)
	return nil
}

func (s *ResumeService) Usage(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// cleanup deletes storage objects without propagating failures.
func (s *ResumeService) cleanup(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("storage cleanup failed", "key", key, "error", err)
		}
	}
}
