package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

type InvoiceRepository struct {
	DB *sql.DB
}

const invoiceColumns = `id, invoice_number, purchase_order_id, vendor_id, invoice_amount, tax_amount, discount_amount, net_amount, currency, status, due_date, received_at, attachment_url, created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }) (models.Invoice, error) {
	var inv models.Invoice
	var poID sql.NullInt64
	var due, received sql.NullTime
	var attachment sql.NullString
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &poID, &inv.VendorID, &inv.InvoiceAmount, &inv.TaxAmount, &inv.DiscountAmount,
		&inv.NetAmount, &inv.Currency, &inv.Status, &due, &received, &attachment, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return models.Invoice{}, err
	}
	if poID.Valid {
		inv.PurchaseOrderID = int(poID.Int64)
	}
	if due.Valid {
		inv.DueDate = &due.Time
	}
	if received.Valid {
		inv.ReceivedAt = &received.Time
	}
	if attachment.Valid {
		inv.AttachmentURL = attachment.String
	}
	return inv, nil
}

func nullablePO(poID int) interface{} {
	if poID == 0 {
		return nil
	}
	return poID
}

// CreateInvoice inserts the invoice and refreshes the parent purchase order
// totals in the same transaction.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice, audit models.AuditEntry) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `INSERT INTO invoices (invoice_number, purchase_order_id, vendor_id, invoice_amount, tax_amount, discount_amount, net_amount, currency, status, due_date)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, inv.InvoiceNumber, nullablePO(inv.PurchaseOrderID), inv.VendorID,
		inv.InvoiceAmount, inv.TaxAmount, inv.DiscountAmount, inv.NetAmount, inv.Currency, fsm.InvoiceStatusPending, inv.DueDate)
	if err != nil {
		return 0, err
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	id := int(id64)

	audit.EntityID = id
	if err = AppendTx(ctx, tx, audit); err != nil {
		return 0, err
	}
	if inv.PurchaseOrderID != 0 {
		if _, err = SyncFinancialsTx(ctx, tx, inv.PurchaseOrderID); err != nil {
			return 0, err
		}
	}
	err = tx.Commit()
	return id, err
}

func (r *InvoiceRepository) GetInvoiceByID(ctx context.Context, id int) (models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepository) GetInvoicesByPurchaseOrder(ctx context.Context, poID int) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE purchase_order_id = ? ORDER BY id`
	return r.queryInvoices(ctx, query, poID)
}

func (r *InvoiceRepository) GetInvoicesByStatus(ctx context.Context, status string) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = ? ORDER BY id`
	return r.queryInvoices(ctx, query, status)
}

func (r *InvoiceRepository) GetInvoices(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY id DESC`
	return r.queryInvoices(ctx, query)
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateInvoice rewrites the mutable fields and refreshes the old and new
// parent purchase orders when the invoice moved between them. oldPOID is the
// parent before the update as loaded by the caller.
func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, inv models.Invoice, oldPOID int, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `UPDATE invoices SET invoice_number = ?, purchase_order_id = ?, vendor_id = ?, invoice_amount = ?, tax_amount = ?, discount_amount = ?, net_amount = ?, currency = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, inv.InvoiceNumber, nullablePO(inv.PurchaseOrderID), inv.VendorID,
		inv.InvoiceAmount, inv.TaxAmount, inv.DiscountAmount, inv.NetAmount, inv.Currency, inv.DueDate, inv.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = models.ErrInvoiceNotFound
		return err
	}

	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	if err = syncParents(ctx, tx, oldPOID, inv.PurchaseOrderID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteInvoice removes the invoice and refreshes the parent totals.
func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, inv models.Invoice, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM check_requisition_invoices WHERE invoice_id = ?`, inv.ID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, inv.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		err = models.ErrInvoiceNotFound
		return err
	}

	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	if inv.PurchaseOrderID != 0 {
		if _, err = SyncFinancialsTx(ctx, tx, inv.PurchaseOrderID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ApplyStatus moves the invoice along the transition table, records the audit
// row and refreshes the parent totals, all in one transaction. Extra updates
// (received_at) ride along for the transitions that set them.
func (r *InvoiceRepository) ApplyStatus(ctx context.Context, inv models.Invoice, target string, receivedAt *time.Time, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityInvoice, inv.ID, inv.Status, target); err != nil {
		return err
	}
	if receivedAt != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE invoices SET received_at = ? WHERE id = ?`, receivedAt, inv.ID); err != nil {
			return err
		}
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	if inv.PurchaseOrderID != 0 {
		if _, err = SyncFinancialsTx(ctx, tx, inv.PurchaseOrderID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *InvoiceRepository) SetAttachmentURL(ctx context.Context, id int, url string) error {
	query := `UPDATE invoices SET attachment_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, url, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvoiceNotFound
	}
	return nil
}

func syncParents(ctx context.Context, tx *sql.Tx, oldPOID, newPOID int) error {
	if oldPOID != 0 && oldPOID != newPOID {
		if _, err := SyncFinancialsTx(ctx, tx, oldPOID); err != nil {
			return err
		}
	}
	if newPOID != 0 {
		if _, err := SyncFinancialsTx(ctx, tx, newPOID); err != nil {
			return err
		}
	}
	return nil
}

// OverdueInvoice is one invoice flipped by the overdue sweep.
type OverdueInvoice struct {
	ID          int    `json:"id"`
	FromStatus  string `json:"from_status"`
	DaysOverdue int    `json:"days_overdue"`
}

// overdueCandidateStatuses lists every invoice status the overdue sweep may
// flip: the non-terminal ones. Paid and overdue rows stay put.
var overdueCandidateStatuses = []string{
	fsm.InvoiceStatusPending,
	fsm.InvoiceStatusReceived,
	fsm.InvoiceStatusApproved,
	fsm.InvoiceStatusRejected,
	fsm.InvoiceStatusPendingDisbursement,
}

// MarkOverdue flips every invoice whose due date passed and whose status is
// still non-terminal to overdue, writing one audit row per invoice. Invoices
// already overdue are excluded from the candidate set, so a second run over
// the same data changes nothing.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time, actorID int) ([]OverdueInvoice, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	args := make([]interface{}, 0, len(overdueCandidateStatuses)+1)
	args = append(args, now)
	for _, status := range overdueCandidateStatuses {
		args = append(args, status)
	}
	rows, err := tx.QueryContext(ctx, `SELECT id, status, due_date, purchase_order_id FROM invoices
		WHERE due_date IS NOT NULL AND due_date < ?
		AND status IN (?, ?, ?, ?, ?) FOR UPDATE`, args...)
	if err != nil {
		return nil, err
	}

	var flipped []OverdueInvoice
	poIDs := map[int]struct{}{}
	for rows.Next() {
		var item OverdueInvoice
		var due time.Time
		var poID sql.NullInt64
		if err = rows.Scan(&item.ID, &item.FromStatus, &due, &poID); err != nil {
			rows.Close()
			return nil, err
		}
		item.DaysOverdue = DaysOverdue(due, now)
		if poID.Valid {
			poIDs[int(poID.Int64)] = struct{}{}
		}
		flipped = append(flipped, item)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range flipped {
		res, execErr := tx.ExecContext(ctx, `UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
			fsm.InvoiceStatusOverdue, item.ID, item.FromStatus)
		if execErr != nil {
			err = execErr
			return nil, err
		}
		affected, execErr := res.RowsAffected()
		if execErr != nil {
			err = execErr
			return nil, err
		}
		if affected == 0 {
			err = sql.ErrNoRows
			return nil, err
		}
		audit := models.AuditEntry{
			EntityType: fsm.EntityInvoice,
			EntityID:   item.ID,
			Action:     "overdue",
			FieldDiffs: fmt.Sprintf(`{"status":{"old":%q,"new":%q},"days_overdue":%d}`, item.FromStatus, fsm.InvoiceStatusOverdue, item.DaysOverdue),
			ActorID:    actorID,
		}
		if err = AppendTx(ctx, tx, audit); err != nil {
			return nil, err
		}
	}
	for poID := range poIDs {
		if _, err = SyncFinancialsTx(ctx, tx, poID); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return flipped, nil
}

// DaysOverdue is the whole number of days between the due date and now,
// never negative.
func DaysOverdue(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}
