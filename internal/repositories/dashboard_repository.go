package repositories

import (
	"context"
	"database/sql"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

type DashboardRepository struct {
	DB *sql.DB
}

func (r *DashboardRepository) GetSummary(ctx context.Context, now time.Time) (models.DashboardSummary, error) {
	summary := models.DashboardSummary{
		InvoicesByStatus:     map[string]int{},
		RequisitionsByStatus: map[string]int{},
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM invoices GROUP BY status`)
	if err != nil {
		return summary, err
	}
	if err := scanStatusCounts(rows, summary.InvoicesByStatus); err != nil {
		return summary, err
	}

	rows, err = r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM check_requisitions GROUP BY status`)
	if err != nil {
		return summary, err
	}
	if err := scanStatusCounts(rows, summary.RequisitionsByStatus); err != nil {
		return summary, err
	}

	err = r.DB.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(outstanding_amount), 0), COALESCE(SUM(total_paid), 0) FROM purchase_orders WHERE status = ?`,
		models.PurchaseOrderStatusOpen).Scan(&summary.OpenPurchaseOrders, &summary.TotalOutstanding, &summary.TotalPaid)
	if err != nil {
		return summary, err
	}

	summary.OverdueInvoices = summary.InvoicesByStatus[fsm.InvoiceStatusOverdue]
	return summary, nil
}

func scanStatusCounts(rows *sql.Rows, dst map[string]int) error {
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return err
		}
		dst[status] = count
	}
	return rows.Err()
}
