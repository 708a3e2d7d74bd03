package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// Recover turns panics in handlers into a logged 500 instead of a dead
// connection. The stack goes to the log, never to the client.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
					slog.String("stack", string(debug.Stack())),
				)
				_ = c.Status(fiber.StatusInternalServerError).
					JSON(errorBody("INTERNAL_ERROR", "An unexpected error occurred"))
			}
		}()
		return c.Next()
	}
}
