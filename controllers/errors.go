package controllers

import (
	"errors"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// statusFor maps service error kinds to HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler renders errors that escape a handler, such as unknown routes
// or recovered panics, with the same {"error": ...} body.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", ctx.Method()).Str("path", ctx.Path()).Msg("request failed")
		}
		return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}
