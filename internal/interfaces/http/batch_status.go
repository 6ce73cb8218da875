package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/batch"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/domain"
)

// batchStatusCode traduce el estado agregado del lote a código HTTP.
// okCode es 200 para actualizaciones y 201 para altas.
func batchStatusCode(aggregate string, okCode int) int {
	switch batch.Aggregate(aggregate) {
	case batch.AggregateSuccess:
		return okCode
	case batch.AggregatePartial:
		return fiber.StatusMultiStatus
	case batch.AggregateInvalid:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// writeBatch responde el lote con el código correspondiente a su estado.
func writeBatch[T any](c *fiber.Ctx, resp dto.BatchResponse[T], okCode int) error {
	return c.Status(batchStatusCode(resp.Status, okCode)).JSON(resp)
}

// invalidBody respuesta para un cuerpo que no es una lista JSON.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba una lista JSON"})
}

// writeError mapea errores de dominio de operaciones individuales.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// parseItemID lee :itemId como entero positivo.
func parseItemID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("itemId")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
