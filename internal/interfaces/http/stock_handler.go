package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
)

// StockHandler operaciones del ledger: asignar, mover y retirar stock de bandejas.
type StockHandler struct {
	ledger *ledger.Ledger
}

// NewStockHandler construye el handler.
func NewStockHandler(l *ledger.Ledger) *StockHandler {
	return &StockHandler{ledger: l}
}

// Assign godoc
// @Summary      Asignar stock a una bandeja
// @Description  Identifica la bandeja por tray_id o por (module_id, slot). Reasignar el mismo
// @Description  producto actualiza la cantidad; una bandeja de otro producto responde 409 TRAY_OCCUPIED.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignStockRequest  true  "product_id, tray_id | module_id+slot, quantity"
// @Success      200   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/assign [post]
func (h *StockHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductID == "" || in.Quantity < 1 {
		return validation(c, "product_id y quantity (>= 1) son requeridos")
	}
	ctx := c.UserContext()
	switch {
	case in.TrayID != "":
		a, err := h.ledger.Assign(ctx, in.ProductID, in.TrayID, in.Quantity)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toAssignmentResponse(a))
	case in.ModuleID != "" && in.Slot > 0:
		a, err := h.ledger.AssignAt(ctx, in.ProductID, in.ModuleID, in.Slot, in.Quantity)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toAssignmentResponse(a))
	default:
		return validation(c, "indique tray_id o module_id y slot")
	}
}

// Move godoc
// @Summary      Mover stock entre bandejas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveStockRequest  true  "product_id, from_tray_id, to_tray_id"
// @Success      200   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/move [post]
func (h *StockHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductID == "" || in.FromTrayID == "" || in.ToTrayID == "" {
		return validation(c, "product_id, from_tray_id y to_tray_id son requeridos")
	}
	a, err := h.ledger.Move(c.UserContext(), in.ProductID, in.FromTrayID, in.ToTrayID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAssignmentResponse(a))
}

// Remove godoc
// @Summary      Retirar el stock de una bandeja
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.RemoveStockRequest  true  "product_id, tray_id"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/remove [post]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	var in dto.RemoveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductID == "" || in.TrayID == "" {
		return validation(c, "product_id y tray_id son requeridos")
	}
	if err := h.ledger.Remove(c.UserContext(), in.ProductID, in.TrayID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
