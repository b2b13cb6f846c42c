package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/autonomo-api/internal/application/stats"
)

// StatsHandler maneja las peticiones HTTP de agregación fiscal.
type StatsHandler struct {
	uc *stats.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// periodToken compone el token de periodo desde la query: ?year=2025&period=q2
// → "2025-q2". Sin year devuelve "" y el caso de uso cae al año en curso.
func periodToken(c *fiber.Ctx) string {
	year := c.Query("year")
	if year == "" {
		return ""
	}
	return year + "-" + c.Query("period", "all")
}

// Dashboard GET /api/stats/dashboard?year=2025&period=q2
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.uc.GetDashboard(c.Context(), GetUserID(c), periodToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Report GET /api/stats/report?year=2025&period=q2
func (h *StatsHandler) Report(c *fiber.Ctx) error {
	summary, err := h.uc.GetFiscalReport(c.Context(), GetUserID(c), periodToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// CategoryBreakdown GET /api/stats/categories?year=2025&period=7
func (h *StatsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.uc.GetCategoryBreakdown(c.Context(), GetUserID(c), periodToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(breakdown)
}
