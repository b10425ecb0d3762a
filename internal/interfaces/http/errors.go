package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código estable para el cliente.
// El orden importa: los errores específicos van antes que su categoría.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrTrayOccupiedByOther, fiber.StatusConflict, "TRAY_OCCUPIED"},
	{domain.ErrDestinationOccupied, fiber.StatusConflict, "DESTINATION_OCCUPIED"},
	{domain.ErrCapacityExceeded, fiber.StatusConflict, "CAPACITY_EXCEEDED"},
	{domain.ErrSourceMismatch, fiber.StatusConflict, "SOURCE_MISMATCH"},
	{domain.ErrProductInUse, fiber.StatusConflict, "PRODUCT_IN_USE"},
	{domain.ErrPositionTaken, fiber.StatusConflict, "POSITION_TAKEN"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrOverFulfillment, fiber.StatusConflict, "OVER_FULFILLMENT"},
	{domain.ErrAlreadyCompleted, fiber.StatusConflict, "ALREADY_COMPLETED"},
	{domain.ErrAlreadyCancelled, fiber.StatusConflict, "ALREADY_CANCELLED"},
	{domain.ErrOrderCancelled, fiber.StatusConflict, "ORDER_CANCELLED"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrModuleNotFound, fiber.StatusNotFound, "MODULE_NOT_FOUND"},
	{domain.ErrTrayNotFound, fiber.StatusNotFound, "TRAY_NOT_FOUND"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{domain.ErrLineNotFound, fiber.StatusNotFound, "LINE_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con el ErrorResponse correspondiente. Los errores no mapeados salen
// como 500 sin exponer el detalle; el RequestLogger los registra vía c.Locals.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	c.Locals(LocalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validation(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

// pageParams lee limit/offset con los topes de la API.
func pageParams(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.Normalize()
	return p
}
