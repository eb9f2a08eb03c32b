package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/handlers"
	"github.com/resumely/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	resumeHandler *handlers.ResumeHandler,
	paymentHandler *handlers.PaymentHandler,
	kvHandler *handlers.KeyValueHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Get("/google/login", authHandler.GoogleLogin)
	auth.Get("/google/callback", authHandler.GoogleCallback)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes stay in the group (same strict limit) and get
	// JWT middleware individually so the public ones above stay public.
	auth.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	auth.Delete("/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Resumes (protected)
	resumes := api.Group("/resumes", middleware.JWTProtected(cfg))
	resumes.Post("/", resumeHandler.Upload)
	resumes.Get("/", resumeHandler.List)
	resumes.Get("/usage", resumeHandler.Usage)
	resumes.Get("/:id", resumeHandler.Get)
	resumes.Get("/:id/preview", resumeHandler.Preview)
	resumes.Get("/:id/url", resumeHandler.SignedURL)
	resumes.Delete("/:id", resumeHandler.Delete)

	// Trial quota status
	api.Get("/usage", middleware.JWTProtected(cfg), resumeHandler.Usage)

	// Billing (protected)
	api.Post("/billing/checkout", middleware.JWTProtected(cfg), paymentHandler.Checkout)
	api.Get("/billing/payments", middleware.JWTProtected(cfg), paymentHandler.ListPayments)

	// Per-user key-value settings (protected)
	kv := api.Group("/kv", middleware.JWTProtected(cfg))
	kv.Get("/", kvHandler.List)
	kv.Get("/:key", kvHandler.Get)
	kv.Put("/:key", kvHandler.Set)
	kv.Delete("/:key", kvHandler.Delete)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/payments", adminHandler.ListPayments)
	admin.Put("/users/:id/plan", adminHandler.SetUserPlan)

	// Webhooks — signature-verified, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe", paymentHandler.Webhook)
}
