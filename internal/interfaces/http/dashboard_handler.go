package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/query"
)

// DashboardHandler vistas de solo lectura: estadísticas y búsqueda.
type DashboardHandler struct {
	projection *query.Projection
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(p *query.Projection) *DashboardHandler {
	return &DashboardHandler{projection: p}
}

// Stats godoc
// @Summary      Estadísticas del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.projection.DashboardStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDashboardStats(stats))
}

// Search godoc
// @Summary      Buscar producto por SKU o nombre
// @Description  Devuelve una fila por bandeja ocupada, en orden de ubicación; q vacío devuelve [].
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  false  "SKU exacto o parte del nombre"
// @Success      200  {array}  dto.SearchResultDTO
// @Router       /api/search [get]
func (h *DashboardHandler) Search(c *fiber.Ctx) error {
	results, err := h.projection.Search(c.UserContext(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SearchResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, toSearchResult(r))
	}
	return c.JSON(out)
}
