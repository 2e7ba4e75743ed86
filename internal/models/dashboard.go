package models

// DashboardSummary is the aggregate view served to the dashboard. It is
// cached in Redis for a short TTL, so numbers can trail writes slightly.
type DashboardSummary struct {
	InvoicesByStatus     map[string]int `json:"invoices_by_status"`
	RequisitionsByStatus map[string]int `json:"requisitions_by_status"`
	OpenPurchaseOrders   int            `json:"open_purchase_orders"`
	TotalOutstanding     float64        `json:"total_outstanding"`
	TotalPaid            float64        `json:"total_paid"`
	OverdueInvoices      int            `json:"overdue_invoices"`
}
