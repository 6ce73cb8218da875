package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// HeaderIdempotencyKey header opcional en los endpoints de lote.
const HeaderIdempotencyKey = "Idempotency-Key"

// IdempotencyStore es el contrato mínimo que necesita el middleware.
// Lo implementa *redis.IdempotencyStore.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rechaza la reentrega de un lote con la misma Idempotency-Key.
// Sin header la petición pasa sin verificar.
//
// Comportamiento:
//   - 409 Conflict → la llave ya se usó para este método y ruta.
//   - 503 Service Unavailable → no se pudo consultar el store.
//   - Si el lote termina en error o 5xx la llave se libera para permitir el reintento.
func Idempotency(store IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderIdempotencyKey)
		if raw == "" {
			return c.Next()
		}
		key := c.Method() + " " + c.Path() + " " + raw

		claimed, err := store.Claim(c.Context(), key)
		if err != nil {
			log.Error().Err(err).Str("idempotency_key", raw).Msg("verificar idempotency key")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "IDEMPOTENCY_UNAVAILABLE",
				Message: "no se pudo verificar la llave de idempotencia, intente más tarde",
			})
		}
		if !claimed {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "DUPLICATE_REQUEST",
				Message: "la llave de idempotencia ya fue usada",
			})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			if rerr := store.Release(c.Context(), key); rerr != nil {
				log.Warn().Err(rerr).Str("idempotency_key", raw).Msg("liberar idempotency key")
			}
		}
		return err
	}
}
