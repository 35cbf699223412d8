package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
	"travel-order-backend/lib/rbac"
	"travel-order-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(10))
	app.Post("/", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	t.Run("within limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader("small")))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run("over limit", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader("much too large")))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	})
}

func TestRbacMiddleware(t *testing.T) {
	rbac.NewHandler()
	newApp := func(session models.Session) *fiber.App {
		app := fiber.New()
		api := fiber.New()
		api.Use(func(ctx *fiber.Ctx) error {
			ctx.Locals(sessionKey, session)
			return ctx.Next()
		})
		api.Use(RbacMiddleware())
		handler := func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusOK)
		}
		api.Get("/travel-orders", handler)
		api.Get("/travel-orders/:id", handler)
		api.Post("/director/travel-orders/:id/action", handler)
		api.Get("/admin/personnel", handler)
		app.Mount("/api/v1", api)
		return app
	}
	personnel := newApp(models.Session{UserID: "p1", Role: models.PersonnelRole})
	director := newApp(models.Session{UserID: "d1", Role: models.DirectorRole})
	admin := newApp(models.Session{UserID: "a1", Role: models.IctAdminRole})
	anonymous := newApp(models.Session{})

	cases := []struct {
		name   string
		app    *fiber.App
		method string
		path   string
		status int
	}{
		{"personnel lists own orders", personnel, fiber.MethodGet, "/api/v1/travel-orders?status=draft", fiber.StatusOK},
		{"director cannot list personnel orders", director, fiber.MethodGet, "/api/v1/travel-orders", fiber.StatusForbidden},
		{"director reads an order", director, fiber.MethodGet, "/api/v1/travel-orders/abc", fiber.StatusOK},
		{"director acts", director, fiber.MethodPost, "/api/v1/director/travel-orders/abc/action", fiber.StatusOK},
		{"admin cannot act", admin, fiber.MethodPost, "/api/v1/director/travel-orders/abc/action", fiber.StatusForbidden},
		{"admin manages personnel", admin, fiber.MethodGet, "/api/v1/admin/personnel", fiber.StatusOK},
		{"personnel cannot manage personnel", personnel, fiber.MethodGet, "/api/v1/admin/personnel", fiber.StatusForbidden},
		{"no session", anonymous, fiber.MethodGet, "/api/v1/travel-orders", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.app.Test(httptest.NewRequest(tc.method, tc.path, nil))
			require.Nil(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
