package middleware

import (
	"time"

	"design-exporter/internal/common/logger"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на каждый запрос в структурный лог.
func Logger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		event := logger.Info()
		if err != nil {
			event = logger.Warn().Err(err)
		}
		event.
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("content_type", c.Get("Content-Type")).
			Msg("request")
		return err
	}
}
