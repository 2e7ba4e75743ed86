package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

type CheckRequisitionRepository struct {
	DB *sql.DB
}

const requisitionColumns = `id, requisition_number, requested_amount, currency, status, requester_id, reviewer_id, approver_id, created_at, updated_at`

func scanRequisition(row interface{ Scan(...interface{}) error }) (models.CheckRequisition, error) {
	var cr models.CheckRequisition
	var reviewer, approver sql.NullInt64
	err := row.Scan(&cr.ID, &cr.RequisitionNumber, &cr.RequestedAmount, &cr.Currency, &cr.Status,
		&cr.RequesterID, &reviewer, &approver, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	if reviewer.Valid {
		cr.ReviewerID = int(reviewer.Int64)
	}
	if approver.Valid {
		cr.ApproverID = int(approver.Int64)
	}
	return cr, nil
}

// CreateWithInvoices inserts the requisition and its invoice links in one
// transaction. Every linked invoice must be approved and share the
// requisition currency; the requested amount is the sum of the linked net
// amounts.
func (r *CheckRequisitionRepository) CreateWithInvoices(ctx context.Context, cr models.CheckRequisition, invoiceIDs []int, audit models.AuditEntry) (int, error) {
	if len(invoiceIDs) == 0 {
		return 0, fmt.Errorf("check requisition needs at least one invoice")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var total float64
	currency := ""
	for _, invID := range invoiceIDs {
		var status, invCurrency string
		var net float64
		err = tx.QueryRowContext(ctx, `SELECT status, currency, net_amount FROM invoices WHERE id = ? FOR UPDATE`, invID).Scan(&status, &invCurrency, &net)
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrInvoiceNotFound
			return 0, err
		}
		if err != nil {
			return 0, err
		}
		if status != fsm.InvoiceStatusApproved {
			err = &fsm.InvalidTransitionError{Entity: fsm.EntityInvoice, From: status, To: fsm.InvoiceStatusPendingDisbursement}
			return 0, err
		}
		if currency == "" {
			currency = invCurrency
		} else if currency != invCurrency {
			err = models.ErrCurrencyMismatch
			return 0, err
		}
		total += net
	}

	query := `INSERT INTO check_requisitions (requisition_number, requested_amount, currency, status, requester_id) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, cr.RequisitionNumber, total, currency, fsm.RequisitionStatusPending, cr.RequesterID)
	if err != nil {
		return 0, err
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	id := int(id64)

	for _, invID := range invoiceIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO check_requisition_invoices (check_requisition_id, invoice_id) VALUES (?, ?)`, id, invID); err != nil {
			return 0, err
		}
	}

	audit.EntityID = id
	if err = AppendTx(ctx, tx, audit); err != nil {
		return 0, err
	}
	err = tx.Commit()
	return id, err
}

func (r *CheckRequisitionRepository) GetRequisitionByID(ctx context.Context, id int) (models.CheckRequisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM check_requisitions WHERE id = ?`
	cr, err := scanRequisition(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckRequisition{}, models.ErrRequisitionNotFound
	}
	if err != nil {
		return models.CheckRequisition{}, err
	}
	cr.InvoiceIDs, err = r.linkedInvoiceIDs(ctx, id)
	return cr, err
}

func (r *CheckRequisitionRepository) GetRequisitions(ctx context.Context) ([]models.CheckRequisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM check_requisitions ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requisitions []models.CheckRequisition
	for rows.Next() {
		cr, err := scanRequisition(rows)
		if err != nil {
			return nil, err
		}
		requisitions = append(requisitions, cr)
	}
	return requisitions, rows.Err()
}

func (r *CheckRequisitionRepository) linkedInvoiceIDs(ctx context.Context, crID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT invoice_id FROM check_requisition_invoices WHERE check_requisition_id = ? ORDER BY invoice_id`, crID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func linkedInvoicesTx(ctx context.Context, tx *sql.Tx, crID int) ([]models.Invoice, error) {
	rows, err := tx.QueryContext(ctx, `SELECT i.id, i.status, i.purchase_order_id FROM invoices i
		JOIN check_requisition_invoices l ON l.invoice_id = i.id
		WHERE l.check_requisition_id = ? FOR UPDATE`, crID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var poID sql.NullInt64
		if err := rows.Scan(&inv.ID, &inv.Status, &poID); err != nil {
			return nil, err
		}
		if poID.Valid {
			inv.PurchaseOrderID = int(poID.Int64)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Approve moves the requisition pending -> approved and re-approves every
// linked approved invoice into pending_disbursement, one transaction.
func (r *CheckRequisitionRepository) Approve(ctx context.Context, cr models.CheckRequisition, approverID int, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, cr.ID, cr.Status, fsm.RequisitionStatusApproved); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE check_requisitions SET approver_id = ? WHERE id = ?`, approverID, cr.ID); err != nil {
		return err
	}

	invoices, err := linkedInvoicesTx(ctx, tx, cr.ID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if inv.Status != fsm.InvoiceStatusApproved {
			continue
		}
		if err = fsm.Apply(ctx, tx, fsm.EntityInvoice, inv.ID, inv.Status, fsm.InvoiceStatusPendingDisbursement); err != nil {
			return err
		}
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// Reject moves the requisition pending -> rejected and rolls every linked
// pending_disbursement invoice back to approved.
func (r *CheckRequisitionRepository) Reject(ctx context.Context, cr models.CheckRequisition, reviewerID int, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, cr.ID, cr.Status, fsm.RequisitionStatusRejected); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE check_requisitions SET reviewer_id = ? WHERE id = ?`, reviewerID, cr.ID); err != nil {
		return err
	}

	invoices, err := linkedInvoicesTx(ctx, tx, cr.ID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if inv.Status != fsm.InvoiceStatusPendingDisbursement {
			continue
		}
		if err = fsm.Apply(ctx, tx, fsm.EntityInvoice, inv.ID, inv.Status, fsm.InvoiceStatusApproved); err != nil {
			return err
		}
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// Reset returns a rejected requisition to pending for another review round.
func (r *CheckRequisitionRepository) Reset(ctx context.Context, cr models.CheckRequisition, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, cr.ID, cr.Status, fsm.RequisitionStatusPending); err != nil {
		return err
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}
