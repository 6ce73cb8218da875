package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/application/dto"
)

// ActivityHandler consulta del historial de actividad.
type ActivityHandler struct {
	uc *activity.UseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *activity.UseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      Historial de actividad de un item
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        itemId  path   int  true   "ID del item"
// @Param        limit   query  int  false  "Máximo de registros (por defecto 20, máximo 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ActivityListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/activity/{itemId} [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "itemId inválido"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), id, page)
	if err != nil {
		return writeError(c, err, "Item not found")
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del historial de actividad
// @Tags         activity
// @Security     Bearer
// @Produce      application/pdf
// @Param        itemId  path  int  true  "ID del item"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/activity/{itemId}/report [get]
func (h *ActivityHandler) Report(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "itemId inválido"})
	}
	pdf, filename, err := h.uc.Report(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Item not found")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
