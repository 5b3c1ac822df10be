package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Phucht59/Face-detect/internal/domain"
)

// Recover turns a handler panic into the taxonomy's internal error instead of
// tearing down the connection mid-recognition.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic recovered",
					slog.Any("panic", r),
					slog.String("path", c.Path()),
					slog.String("method", c.Method()),
				)

				_ = c.Status(domain.ErrInternal.StatusCode).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    domain.ErrInternal.Code,
						"message": domain.ErrInternal.Message,
					},
				})
			}
		}()
		return c.Next()
	}
}
