package http

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/libertsolutions/libertvendas/internal/application/dashboard"
	"github.com/libertsolutions/libertvendas/internal/application/dto"
)

type dashboardView struct {
	loads  int
	chart  []dashboard.OrderChartData
	empty  bool
	failed bool
}

func (v *dashboardView) StartLoading() { v.loads++ }
func (v *dashboardView) StopLoading() {}
func (v *dashboardView) ShowEmptyState() { v.chart, v.empty, v.failed = nil, true, false }
func (v *dashboardView) ShowErrorState() { v.failed = true }

func (v *dashboardView) ShowChart(data []dashboard.OrderChartData) {
	v.chart, v.empty, v.failed = data, false, false
}

// DashboardHandler maneja la pantalla de inicio: pedidos del vendedor por cliente.
type DashboardHandler struct {
	presenter *dashboard.Presenter

	mu sync.Mutex
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(presenter *dashboard.Presenter) *DashboardHandler {
	return &DashboardHandler{presenter: presenter}
}

// Get GET /api/dashboard
//
// Al adjuntar la vista el presentador recibe la sesión publicada y, si cambió,
// recarga solo; si no, se fuerza la recarga.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := &dashboardView{}
	h.presenter.Attach(v)
	defer h.presenter.Detach()
	if v.loads == 0 {
		h.presenter.Refresh(c.UserContext())
	}

	switch {
	case v.loads == 0:
		return fail(c, fiber.StatusUnauthorized, "SESSION_CLOSED", "no hay sesión iniciada")
	case v.failed:
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "no se pudo armar el gráfico de pedidos")
	}
	return c.JSON(dto.DashboardResponse{Chart: v.chart, Empty: v.empty})
}
