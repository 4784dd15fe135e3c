package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger logs one line per request. Handler errors are rendered by the app's ErrorHandler
// before logging so the recorded status matches what the client receives.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		msg := "HTTP Request"
		if err := c.Next(); err != nil {
			msg = err.Error()

			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				c.Status(fiber.StatusInternalServerError)
				msg = handlerErr.Error()
			}
		}

		code := c.Response().StatusCode()

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", requestIP(c)).
			Dur("latency", time.Since(startTime)).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Logger()

		requestEvent(&requestLogger, code).Msg(msg)

		return nil
	}
}

func requestIP(c *fiber.Ctx) string {
	if cloudflareConnectingIP := c.Get("CF-Connecting-IP"); cloudflareConnectingIP != "" {
		return cloudflareConnectingIP
	}

	return c.IP()
}

func requestEvent(logger *zerolog.Logger, code int) *zerolog.Event {
	switch {
	case code >= fiber.StatusInternalServerError:
		return logger.Error()
	case code >= fiber.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}
