package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/dto"
	"github.com/jhoicas/Inventario-batch/internal/application/item"
)

// ItemHandler maneja alta, actualización, baja y consulta de items.
type ItemHandler struct {
	uc *item.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *item.UseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Add godoc
// @Summary      Alta de items por lote
// @Description  Crea cada item con su inventario inicial. 201 si todos se crearon, 207 si alguno falló.
// @Tags         item
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                false  "Llave para evitar reprocesar el lote"
// @Param        body             body    []dto.AddItemRequest  true   "item_name, item_price, quantity"
// @Success      201  {object}  dto.BatchResponse[dto.AddItemResult]
// @Success      207  {object}  dto.BatchResponse[dto.AddItemResult]
// @Failure      400  {object}  dto.BatchResponse[dto.AddItemResult]
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.BatchResponse[dto.AddItemResult]
// @Router       /api/item/add [post]
func (h *ItemHandler) Add(c *fiber.Ctx) error {
	var in []dto.AddItemRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	return writeBatch(c, h.uc.AddItems(c.UserContext(), in), fiber.StatusCreated)
}

// Update godoc
// @Summary      Actualización parcial de items por lote
// @Description  Solo se modifican los campos presentes. 200 si todos se actualizaron, 207 si alguno falló.
// @Tags         item
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "Llave para evitar reprocesar el lote"
// @Param        body             body    []dto.UpdateItemRequest  true   "item_id y opcionalmente item_name, item_price"
// @Success      200  {object}  dto.BatchResponse[dto.UpdateItemResult]
// @Success      207  {object}  dto.BatchResponse[dto.UpdateItemResult]
// @Failure      400  {object}  dto.BatchResponse[dto.UpdateItemResult]
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.BatchResponse[dto.UpdateItemResult]
// @Router       /api/item/update [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in []dto.UpdateItemRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	return writeBatch(c, h.uc.UpdateItems(c.UserContext(), in), fiber.StatusOK)
}

// Delete godoc
// @Summary      Baja de un item
// @Description  Marca el item como DELETED. Repetir la baja no es un error.
// @Tags         item
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  int  true  "ID del item"
// @Success      200  {object}  dto.DeleteItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/item/delete/{itemId} [post]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "itemId inválido"})
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err, "Item not found")
	}
	return c.JSON(dto.DeleteItemResponse{ItemID: id, Message: "Item deleted"})
}

// GetByID godoc
// @Summary      Obtener item con su stock
// @Tags         item
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  int  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/item/{itemId} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "itemId inválido"})
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Item not found")
	}
	return c.JSON(out)
}
