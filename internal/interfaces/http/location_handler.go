package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/location"
)

// LocationHandler expone el registro de ubicaciones (módulos, bandejas y esquema).
type LocationHandler struct {
	registry *location.Registry
}

// NewLocationHandler construye el handler.
func NewLocationHandler(registry *location.Registry) *LocationHandler {
	return &LocationHandler{registry: registry}
}

// CreateModule godoc
// @Summary      Crear módulo con sus bandejas
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateModuleRequest  true  "label, row, column, tray_capacities"
// @Success      201   {object}  dto.ModuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/modules [post]
func (h *LocationHandler) CreateModule(c *fiber.Ctx) error {
	var in dto.CreateModuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	module, trays, err := h.registry.CreateModule(c.UserContext(), in.Label, in.Row, in.Column, in.TrayCapacities)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toModuleResponse(module, trays))
}

// ListModules godoc
// @Summary      Listar módulos
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ModuleResponse
// @Router       /api/modules [get]
func (h *LocationHandler) ListModules(c *fiber.Ctx) error {
	modules, err := h.registry.ListModules(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, toModuleResponse(m, nil))
	}
	return c.JSON(out)
}

// ListTrays godoc
// @Summary      Bandejas de un módulo
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del módulo"
// @Success      200  {array}   dto.TrayResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/modules/{id}/trays [get]
func (h *LocationHandler) ListTrays(c *fiber.Ctx) error {
	trays, err := h.registry.ListTrays(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.TrayResponse, 0, len(trays))
	for _, t := range trays {
		out = append(out, toTrayResponse(t))
	}
	return c.JSON(out)
}

// ResolveTray godoc
// @Summary      Resolver bandeja por (módulo, slot)
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id    path  string  true  "ID del módulo"
// @Param        slot  path  int     true  "Slot (desde 1)"
// @Success      200   {object}  dto.TrayResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/modules/{id}/trays/{slot} [get]
func (h *LocationHandler) ResolveTray(c *fiber.Ctx) error {
	slot, err := c.ParamsInt("slot")
	if err != nil {
		return validation(c, "slot debe ser numérico")
	}
	tray, err := h.registry.Resolve(c.UserContext(), c.Params("id"), slot)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTrayResponse(tray))
}

// ListLocations godoc
// @Summary      Todas las ubicaciones ordenadas por (fila, columna, slot)
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.registry.ListLocations(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toLocationResponse(l))
	}
	return c.JSON(out)
}

// Schematic godoc
// @Summary      Esquema de la bodega con ocupación por bandeja
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/locations/schematic [get]
func (h *LocationHandler) Schematic(c *fiber.Ctx) error {
	statuses, err := h.registry.Schematic(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, toSchematicResponse(s))
	}
	return c.JSON(out)
}

// IsOccupied godoc
// @Summary      Ocupación de una bandeja
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bandeja"
// @Success      200  {object}  dto.OccupancyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/trays/{id}/occupied [get]
func (h *LocationHandler) IsOccupied(c *fiber.Ctx) error {
	trayID := c.Params("id")
	occupied, err := h.registry.IsOccupied(c.UserContext(), trayID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OccupancyResponse{TrayID: trayID, Occupied: occupied})
}
