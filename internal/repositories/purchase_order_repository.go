package repositories

import (
	"context"
	"database/sql"
	"errors"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/reconcile"
)

type PurchaseOrderRepository struct {
	DB *sql.DB
}

const purchaseOrderColumns = `id, po_number, vendor_id, project_id, description, po_amount, currency, total_invoiced, total_paid, outstanding_amount, status, created_at, updated_at`

func scanPurchaseOrder(row interface{ Scan(...interface{}) error }) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.VendorID, &po.ProjectID, &po.Description, &po.POAmount, &po.Currency,
		&po.TotalInvoiced, &po.TotalPaid, &po.OutstandingAmount, &po.Status, &po.CreatedAt, &po.UpdatedAt)
	return po, err
}

func (r *PurchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) (int, error) {
	query := `INSERT INTO purchase_orders (po_number, vendor_id, project_id, description, po_amount, currency, total_invoiced, total_paid, outstanding_amount, status)
	          VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, po.PONumber, po.VendorID, po.ProjectID, po.Description, po.POAmount, po.Currency, po.POAmount, models.PurchaseOrderStatusOpen)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r *PurchaseOrderRepository) GetPurchaseOrderByID(ctx context.Context, id int) (models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = ?`
	po, err := scanPurchaseOrder(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PurchaseOrder{}, models.ErrPurchaseOrderNotFound
	}
	return po, err
}

func (r *PurchaseOrderRepository) GetPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

// ListBatch pages through purchase orders by ascending id for the
// verification sweep.
func (r *PurchaseOrderRepository) ListBatch(ctx context.Context, afterID, limit int) ([]models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id > ? ORDER BY id ASC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (r *PurchaseOrderRepository) UpdatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) error {
	query := `UPDATE purchase_orders SET po_number = ?, vendor_id = ?, project_id = ?, description = ?, po_amount = ?, currency = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, po.PONumber, po.VendorID, po.ProjectID, po.Description, po.POAmount, po.Currency, po.Status, po.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrPurchaseOrderNotFound
	}
	return nil
}

// SyncFinancials recomputes the cached totals from the live child invoices
// and persists them, overwriting whatever was stored. Calling it again with
// no invoice changes rewrites the same values.
func (r *PurchaseOrderRepository) SyncFinancials(ctx context.Context, poID int) (reconcile.Snapshot, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return reconcile.Snapshot{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	snap, err := SyncFinancialsTx(ctx, tx, poID)
	if err != nil {
		return reconcile.Snapshot{}, err
	}
	err = tx.Commit()
	return snap, err
}

// SyncFinancialsTx is the transactional flavour used when the sync is a side
// effect of a status transition committed elsewhere.
func SyncFinancialsTx(ctx context.Context, tx *sql.Tx, poID int) (reconcile.Snapshot, error) {
	po, invoices, err := loadFinancialsTx(ctx, tx, poID)
	if err != nil {
		return reconcile.Snapshot{}, err
	}
	snap := reconcile.Compute(po, invoices)
	_, err = tx.ExecContext(ctx, `UPDATE purchase_orders SET total_invoiced = ?, total_paid = ?, outstanding_amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		snap.TotalInvoiced, snap.TotalPaid, snap.OutstandingAmount, poID)
	return snap, err
}

func loadFinancialsTx(ctx context.Context, tx *sql.Tx, poID int) (models.PurchaseOrder, []models.Invoice, error) {
	var po models.PurchaseOrder
	err := tx.QueryRowContext(ctx, `SELECT id, po_amount, total_invoiced, total_paid, outstanding_amount FROM purchase_orders WHERE id = ?`, poID).
		Scan(&po.ID, &po.POAmount, &po.TotalInvoiced, &po.TotalPaid, &po.OutstandingAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PurchaseOrder{}, nil, models.ErrPurchaseOrderNotFound
	}
	if err != nil {
		return models.PurchaseOrder{}, nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT id, invoice_amount, tax_amount, discount_amount, net_amount, status FROM invoices WHERE purchase_order_id = ?`, poID)
	if err != nil {
		return models.PurchaseOrder{}, nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceAmount, &inv.TaxAmount, &inv.DiscountAmount, &inv.NetAmount, &inv.Status); err != nil {
			return models.PurchaseOrder{}, nil, err
		}
		invoices = append(invoices, inv)
	}
	return po, invoices, rows.Err()
}

// VerifyFinancials compares stored totals against a fresh computation without
// writing anything.
func (r *PurchaseOrderRepository) VerifyFinancials(ctx context.Context, poID int) (map[string]reconcile.Discrepancy, error) {
	po, err := r.GetPurchaseOrderByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	invoices, err := r.invoicesForVerify(ctx, poID)
	if err != nil {
		return nil, err
	}
	return reconcile.Verify(po, invoices), nil
}

func (r *PurchaseOrderRepository) invoicesForVerify(ctx context.Context, poID int) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, invoice_amount, tax_amount, discount_amount, net_amount, status FROM invoices WHERE purchase_order_id = ?`, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceAmount, &inv.TaxAmount, &inv.DiscountAmount, &inv.NetAmount, &inv.Status); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
