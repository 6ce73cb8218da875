package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/application/inventory"
)

// InventoryHandler maneja los ajustes de stock y el registro de ventas por lote.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Update godoc
// @Summary      Ajuste de inventario por lote
// @Description  ADD suma, REMOVE resta (falla si el stock quedaría negativo), SELL no cambia la cantidad pero se registra como actividad. Cantidades mayores a 2147483647 se rechazan.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Llave para evitar reprocesar el lote"
// @Param        body             body    []dto.InventoryRequest  true   "item_id, quantity, operation_type"
// @Success      200  {object}  dto.BatchResponse[dto.InventoryResult]
// @Success      207  {object}  dto.BatchResponse[dto.InventoryResult]
// @Failure      400  {object}  dto.BatchResponse[dto.InventoryResult]
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.BatchResponse[dto.InventoryResult]
// @Router       /api/inventory/update [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in []dto.InventoryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	return writeBatch(c, h.uc.UpdateInventory(c.UserContext(), in), fiber.StatusOK)
}

// RecordSales godoc
// @Summary      Registro de ventas por lote
// @Description  Solo se procesan las entradas con operation_type SELL; el resto se descarta sin error.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Llave para evitar reprocesar el lote"
// @Param        body             body    []dto.InventoryRequest  true   "item_id, quantity, operation_type"
// @Success      200  {object}  dto.BatchResponse[dto.InventoryResult]
// @Success      207  {object}  dto.BatchResponse[dto.InventoryResult]
// @Failure      400  {object}  dto.BatchResponse[dto.InventoryResult]
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.BatchResponse[dto.InventoryResult]
// @Router       /api/inventory/recordSales [put]
func (h *InventoryHandler) RecordSales(c *fiber.Ctx) error {
	var in []dto.InventoryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	return writeBatch(c, h.uc.RecordSales(c.UserContext(), in), fiber.StatusOK)
}
