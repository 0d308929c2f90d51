package middleware

import (
	"strings"

	"invoice-rag/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubjectKey is the fiber local holding the token subject.
const SubjectKey = "subject"

// Subject returns the authenticated token subject, or "" on public routes.
func Subject(c *fiber.Ctx) string {
	subject, _ := c.Locals(SubjectKey).(string)
	return subject
}

func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(SubjectKey, claims.Subject)

		return c.Next()
	}
}
