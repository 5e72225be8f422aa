package dto

import "github.com/libertsolutions/libertvendas/internal/application/dashboard"

// DashboardResponse gráfico de pedidos por cliente.
type DashboardResponse struct {
	Chart []dashboard.OrderChartData `json:"chart"`
	Empty bool                       `json:"empty"`
}
