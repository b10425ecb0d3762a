package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// RequestLogger registra cada petición con campos estructurados. Los 5xx salen en nivel error
// junto con el error interno que dejó writeError.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if handlerErr, ok := c.Locals(LocalError).(error); ok {
			ev = ev.AnErr("handler_error", handlerErr)
		}
		if err != nil {
			ev = ev.Err(err)
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", rid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return err
	}
}
