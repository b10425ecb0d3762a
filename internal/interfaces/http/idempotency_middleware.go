package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
)

// HeaderIdempotencyKey header que el cliente envía para reintentar sin duplicar efectos.
const HeaderIdempotencyKey = "Idempotency-Key"

// IdempotencyStore persiste las claves de idempotencia (Redis o memoria).
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Response(ctx context.Context, key string) ([]byte, bool, error)
	Complete(ctx context.Context, key string, response []byte) error
	Release(ctx context.Context, key string) error
}

// Idempotency repite la respuesta exitosa de una petición ya procesada con la misma clave.
// La clave se acota por scope, por el usuario autenticado y por el :id de la ruta. Si la petición falla la clave se libera.
// Sin header la petición pasa tal cual.
func Idempotency(store IdempotencyStore, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(HeaderIdempotencyKey)
		if header == "" {
			return c.Next()
		}
		if len(header) > 200 {
			return validation(c, "Idempotency-Key demasiado largo")
		}
		ctx := c.UserContext()
		key := scope + ":" + GetUserID(c) + ":" + c.Params("id") + ":" + header

		claimed, err := store.Claim(ctx, key)
		if err != nil {
			c.Locals(LocalError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo registrar la clave de idempotencia"})
		}
		if !claimed {
			body, done, err := store.Response(ctx, key)
			if err != nil {
				c.Locals(LocalError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo leer la clave de idempotencia"})
			}
			if !done {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REQUEST_IN_PROGRESS", Message: "ya hay una petición en curso con esa Idempotency-Key"})
			}
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).Send(body)
		}

		err = c.Next()
		if err == nil && c.Response().StatusCode() < fiber.StatusMultipleChoices {
			body := append([]byte(nil), c.Response().Body()...)
			if cerr := store.Complete(ctx, key, body); cerr != nil {
				_ = store.Release(ctx, key)
			}
			return nil
		}
		_ = store.Release(ctx, key)
		return err
	}
}
