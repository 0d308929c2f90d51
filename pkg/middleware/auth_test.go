package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-rag/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAuthApp(t *testing.T, m *auth.JWTManager) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString(Subject(c))
	})
	app.Get("/private", AuthMiddleware(m, zaptest.NewLogger(t)), func(c *fiber.Ctx) error {
		return c.SendString(Subject(c))
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware_StoresSubject(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	token, err := m.GenerateToken("contabilidad")
	require.NoError(t, err)
	app := newAuthApp(t, m)

	status, body := get(t, app, "/private", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "contabilidad", body)

	status, body = get(t, app, "/public", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	app := newAuthApp(t, auth.NewJWTManager("secret", time.Hour))

	status, _ := get(t, app, "/private", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := get(t, app, "/private", "Bearer not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "Invalid or expired token")
}
