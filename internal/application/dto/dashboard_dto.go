package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	RecentOrders  []OrderResponse `json:"recent_orders"`
	TotalOrders   int             `json:"total_orders"`
	PendingOrders int             `json:"pending_orders"`
	UnpaidOrders  int             `json:"unpaid_orders"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
}

// ReportQuery filtros de GET /api/reports (fechas YYYY-MM-DD).
type ReportQuery struct {
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	ClientID string `query:"client_id"`
}

// ReportDTO resumen financiero del período.
type ReportDTO struct {
	Orders         []OrderResponse `json:"orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`   // OS pagadas
	PendingRevenue decimal.Decimal `json:"pending_revenue"` // OS sin pagar
	TotalOrders    int             `json:"total_orders"`
}
