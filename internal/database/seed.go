package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedAction int

const (
	seedNone seedAction = iota
	seedPromote
	seedCreate
)

// adminSeedAction decides what SeedDefaults does with the configured admin
// account: nothing when it already holds the role, a promotion when it
// exists without it, a create when it is missing entirely.
func adminSeedAction(found bool, role string) seedAction {
	switch {
	case !found:
		return seedCreate
	case role != "admin":
		return seedPromote
	default:
		return seedNone
	}
}

// SeedDefaults creates the bootstrap admin account if configured. Safe to
// run on every startup; re-running never duplicates the row.
func SeedDefaults(cfg *config.Config) error {
	if cfg.SeedAdminEmail == "" {
		return nil
	}

	var existing models.User
	err := DB.Where("email = ?", cfg.SeedAdminEmail).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}

	switch adminSeedAction(found, existing.Role) {
	case seedNone:
		return nil

	case seedPromote:
		if err := DB.Model(&existing).Update("role", "admin").Error; err != nil {
			return fmt.Errorf("failed to promote seed admin: %w", err)
		}
		slog.Info("seed admin promoted", "email", cfg.SeedAdminEmail)
		return nil

	default: // seedCreate
		if cfg.SeedAdminPassword == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD required to create seed admin")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed admin password: %w", err)
		}

		admin := models.User{
			ID:           uuid.New(),
			Name:         "Admin",
			Email:        cfg.SeedAdminEmail,
			Password:     string(hash),
			AuthProvider: "email",
			Plan:         models.PlanPro,
			TrialMax:     cfg.TrialMaxAnalyses,
			Role:         "admin",
		}
		if err := DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create seed admin: %w", err)
		}

		slog.Info("seed admin created", "email", cfg.SeedAdminEmail)
		return nil
	}
}
