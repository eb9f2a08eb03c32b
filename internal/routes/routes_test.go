package routes

import (
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gofiber/fiber/v2"
	"github.com/resumely/backend/internal/config"
	"github.com/resumely/backend/internal/handlers"
)

// newTestApp wires the full route table with empty handlers. Requests in
// these tests never pass the JWT middleware, so the handlers are never
// invoked.
func newTestApp() *fiber.App {
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:3000",
	}
	app := fiber.New()
	Setup(app, cfg, nil,
		handlers.NewAuthHandler(nil, cfg),
		handlers.NewResumeHandler(nil),
		handlers.NewPaymentHandler(nil, nil),
		handlers.NewKeyValueHandler(nil),
		handlers.NewAdminHandler(nil),
		handlers.NewHealthHandler(nil),
	)
	return app
}

func TestLogoutUsesStrictAuthRateLimit(t *testing.T) {
	c := qt.New(t)
	app := newTestApp()

	// The auth group allows 10 req/min per IP; the 11th request inside the
	// window must be limited, not just rejected as unauthenticated.
	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/auth/logout", nil))
		c.Assert(err, qt.IsNil)
		c.Assert(resp.StatusCode, qt.Equals, fiber.StatusUnauthorized)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/auth/logout", nil))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, fiber.StatusTooManyRequests)
}

func TestDeleteAccountUsesStrictAuthRateLimit(t *testing.T) {
	c := qt.New(t)
	app := newTestApp()

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/auth/account", nil))
		c.Assert(err, qt.IsNil)
		c.Assert(resp.StatusCode, qt.Equals, fiber.StatusUnauthorized)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/auth/account", nil))
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, fiber.StatusTooManyRequests)
}
