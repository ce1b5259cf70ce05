package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/analytics"
	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
)

// DashboardHandler resumen del día y reporte financiero.
type DashboardHandler struct {
	dashboard *analytics.DashboardUseCase
	reports   *analytics.ReportUseCase
}

func NewDashboardHandler(dashboard *analytics.DashboardUseCase, reports *analytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, reports: reports}
}

// Summary GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report GET /api/reports?date_from=&date_to=&client_id=
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.reports.Generate(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
