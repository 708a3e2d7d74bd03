package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// errorBody is the JSON envelope every error response uses.
func errorBody(code, message string) fiber.Map {
	return fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	}
}

// ErrorHandler converte erros em respostas JSON: AppError vira o status e o
// código que ele carrega, o resto vira 500 genérico.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("internal error",
					slog.String("code", appErr.Code),
					slog.String("message", appErr.Message),
					slog.Any("error", appErr.Err),
				)
			}
			return c.Status(appErr.StatusCode).JSON(errorBody(appErr.Code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorBody("HTTP_ERROR", fiberErr.Message))
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)
		return c.Status(fiber.StatusInternalServerError).
			JSON(errorBody("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}
