package dto

import "github.com/shopspring/decimal"

// SalesByDay is one point of the 30-day paid sales series.
type SalesByDay struct {
	Day   string          `json:"day"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// TopProduct ranks products by revenue across paid orders.
type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesReportResponse is the payload of GET /v1/reports/sales.
type SalesReportResponse struct {
	SalesByDay  []SalesByDay      `json:"sales_by_day"`
	TopProducts []TopProduct      `json:"top_products"`
	LowStock    []ProductResponse `json:"low_stock"`
}

// DashboardResponse backs the landing screen counters.
type DashboardResponse struct {
	TotalProducts    int64           `json:"total_products"`
	TotalCustomers   int64           `json:"total_customers"`
	PendingOrders    int64           `json:"pending_orders"`
	MonthlyRevenue   decimal.Decimal `json:"monthly_revenue"`
	LowStockCount    int64           `json:"low_stock_count"`
	OverdueJobs      int64           `json:"overdue_jobs"`
	UnpaidOrderCount int64           `json:"unpaid_order_count"`
}
