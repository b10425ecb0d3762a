package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
)

// OrderHandler ciclo de vida de órdenes: crear, despachar, cancelar y hoja de picking.
type OrderHandler struct {
	engine   *fulfillment.Engine
	pickList *usecase.PickListUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(engine *fulfillment.Engine, pickList *usecase.PickListUseCase) *OrderHandler {
	return &OrderHandler{engine: engine, pickList: pickList}
}

// Create godoc
// @Summary      Crear orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer, lines"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Lines) == 0 {
		return validation(c, "la orden necesita al menos una línea")
	}
	lines := make([]fulfillment.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, fulfillment.LineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	order, err := h.engine.CreateOrder(c.UserContext(), in.Customer, lines)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes (más recientes primero)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	p := pageParams(c)
	orders, err := h.engine.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset},
	}
	for _, o := range orders {
		out.Items = append(out.Items, toOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.engine.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Fulfill godoc
// @Summary      Despachar cantidad de una línea
// @Description  Reserva stock de las bandejas del producto (más antiguas primero) y avanza el estado.
// @Description  Acepta el header Idempotency-Key para reintentos seguros.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                  true   "ID de la orden"
// @Param        Idempotency-Key  header  string                  false  "Clave de idempotencia"
// @Param        body             body    dto.FulfillLineRequest  true   "product_id, quantity"
// @Success      200  {object}  dto.FulfillLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/fulfill [post]
func (h *OrderHandler) Fulfill(c *fiber.Ctx) error {
	var in dto.FulfillLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductID == "" || in.Quantity < 1 {
		return validation(c, "product_id y quantity (>= 1) son requeridos")
	}
	res, err := h.engine.FulfillLine(c.UserContext(), c.Params("id"), in.ProductID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FulfillLineResponse{
		Order:       toOrderResponse(res.Order),
		Allocations: toAllocations(res.Allocations),
	})
}

// Cancel godoc
// @Summary      Cancelar orden
// @Description  Lo ya despachado permanece consumido; no se reintegra al inventario.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.engine.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Delete godoc
// @Summary      Eliminar orden
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PickList godoc
// @Summary      Hoja de picking en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/picklist [get]
func (h *OrderHandler) PickList(c *fiber.Ctx) error {
	pdf, filename, err := h.pickList.DownloadPickListPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
