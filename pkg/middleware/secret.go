package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SecretKey gates administrative routes behind a shared secret carried in the
// X-Secret-Key header. This is request gating for cost control, not session
// auth: it keeps crawlers and stray bots from reaching the mutation surface.
func SecretKey(secret string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			logger.Warn("APP_SECRET_KEY not configured, admin routes are open")
			return c.Next()
		}

		provided := c.Get("X-Secret-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logger.Warn("Rejected request with missing or wrong secret key",
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Acceso denegado: no tienes autorización para usar esta API.",
			})
		}

		return c.Next()
	}
}
