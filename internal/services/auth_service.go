package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/dto"
	"github.com/resumely/backend/internal/models"
	"github.com/resumely/backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	store    *storage.Store
	oauth    *oauth2.Config
	verifier *GoogleVerifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config, store *storage.Store) (*AuthService, error) {
	var verifier *GoogleVerifier
	if cfg.GoogleClientID != "" {
		v, err := NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleJWKSURL)
		if err != nil {
			return nil, err
		}
		verifier = v
	}

	return &AuthService{
		db:    db,
		cfg:   cfg,
		store: store,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		verifier: verifier,
	}, nil
}

// GoogleLoginURL returns the consent-screen URL for the given CSRF state.
func (s *AuthService) GoogleLoginURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// GoogleCallback exchanges the authorization code, verifies the ID token
// and signs the user in, creating the account on first sight.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if s.verifier == nil {
		return nil, errors.New("google sign-in not configured")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return nil, errors.New("token response missing id_token")
	}

	claims, err := s.verifier.Verify(rawID)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, fmt.Errorf("failed to verify Google identity token: %w", err)
	}

	user, err := s.upsertGoogleUser(claims)
	if err != nil {
		return nil, err
	}

	return s.generateTokenPair(user)
}

func (s *AuthService) upsertGoogleUser(claims *GoogleClaims) (*models.User, error) {
	var user models.User
	query := s.db.Where("google_id = ?", claims.Sub)
	if claims.linkByEmail() {
		query = s.db.Where("google_id = ? OR email = ?", claims.Sub, claims.Email)
	}
	err := query.First(&user).Error

	if err != nil {
		name := claims.Name
		if name == "" {
			name = strings.Split(claims.Email, "@")[0]
		}

		googleID := claims.Sub
		user = models.User{
			ID:           uuid.New(),
			Name:         name,
			Email:        claims.Email,
			Password:     "",
			GoogleID:     &googleID,
			AvatarURL:    claims.Picture,
			AuthProvider: "google",
			Plan:         models.PlanFree,
			TrialMax:     s.cfg.TrialMaxAnalyses,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create Google user: %w", err)
		}
		return &user, nil
	}

	if user.GoogleID == nil {
		updates := map[string]interface{}{
			"google_id":     claims.Sub,
			"auth_provider": "google",
		}
		if user.AvatarURL == "" && claims.Picture != "" {
			updates["avatar_url"] = claims.Picture
		}
		s.db.Model(&user).Updates(updates)
		googleID := claims.Sub
		user.GoogleID = &googleID
		user.AuthProvider = "google"
	}

	return &user, nil
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := req.Name
	if name == "" {
		name = strings.Split(req.Email, "@")[0]
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        req.Email,
		Password:     string(hash),
		AuthProvider: "email",
		Plan:         models.PlanFree,
		TrialMax:     s.cfg.TrialMaxAnalyses,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Password == "" {
		// Google-only account.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.Session
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.Session{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// DeleteAccount removes the user and all owned rows. Object-storage cleanup
// runs after the transaction and is best-effort: failures are logged, never
// surfaced.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if user.AuthProvider != "google" {
		if password == "" {
			return errors.New("password is required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	var keys []string
	var resumes []models.Resume
	if err := s.db.Where("user_id = ?", userID).Find(&resumes).Error; err == nil {
		for _, r := range resumes {
			if r.FileKey != "" {
				keys = append(keys, r.FileKey)
			}
			if r.PreviewKey != "" {
				keys = append(keys, r.PreviewKey)
			}
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", userID).Delete(&models.Session{})
		tx.Where("user_id = ?", userID).Delete(&models.Resume{})
		tx.Where("user_id = ?", userID).Delete(&models.KeyValue{})
		tx.Where("user_id = ?", userID).Delete(&models.Payment{})
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	if s.store != nil {
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				slog.Warn("account cleanup delete failed", "key", key, "error", err)
			}
		}
	}

	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
			Plan:      user.Plan,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"plan":  user.Plan,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
