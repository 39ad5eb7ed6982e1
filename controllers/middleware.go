package controllers

import (
	"strconv"
	"time"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequireAdmin rejects the request with 401 unless X-Admin-Password holds
// the current admin password.
func RequireAdmin(admin services.IAdminService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ok, err := admin.VerifyPassword(ctx.UserContext(), ctx.Get(AdminPasswordHeader))
		if err != nil {
			return respondError(ctx, err)
		}
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin password required"})
		}
		return ctx.Next()
	}
}

// RequestLogger logs one line per request and feeds the HTTP metrics.
func RequestLogger(log zerolog.Logger, m *metrics.Metrics) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		if chainErr := ctx.Next(); chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := ctx.Response().StatusCode()
		route := ctx.Route().Path
		method := ctx.Method()

		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())

		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", method).
			Str("path", ctx.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
		return nil
	}
}
