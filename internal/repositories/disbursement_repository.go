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

type DisbursementRepository struct {
	DB *sql.DB
}

const disbursementColumns = `id, check_voucher_number, status, date_check_scheduled, date_check_printing, date_check_released_to_vendor, created_at, updated_at`

func scanDisbursement(row interface{ Scan(...interface{}) error }) (models.Disbursement, error) {
	var d models.Disbursement
	var scheduled, printing, released sql.NullTime
	err := row.Scan(&d.ID, &d.CheckVoucherNumber, &d.Status, &scheduled, &printing, &released, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return models.Disbursement{}, err
	}
	if scheduled.Valid {
		d.DateCheckScheduled = &scheduled.Time
	}
	if printing.Valid {
		d.DateCheckPrinting = &printing.Time
	}
	if released.Valid {
		d.DateCheckReleasedToVendor = &released.Time
	}
	return d, nil
}

// CreateWithRequisitions inserts the disbursement, links the approved
// requisitions and moves them approved -> printing, one transaction.
func (r *DisbursementRepository) CreateWithRequisitions(ctx context.Context, d models.Disbursement, requisitionIDs []int, audit models.AuditEntry) (int, error) {
	if len(requisitionIDs) == 0 {
		return 0, fmt.Errorf("disbursement needs at least one check requisition")
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

	for _, crID := range requisitionIDs {
		var status string
		err = tx.QueryRowContext(ctx, `SELECT status FROM check_requisitions WHERE id = ? FOR UPDATE`, crID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrRequisitionNotFound
			return 0, err
		}
		if err != nil {
			return 0, err
		}
		if status != fsm.RequisitionStatusApproved {
			err = &fsm.InvalidTransitionError{Entity: fsm.EntityRequisition, From: status, To: fsm.RequisitionStatusPrinting}
			return 0, err
		}
	}

	query := `INSERT INTO disbursements (check_voucher_number, status, date_check_scheduled) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, query, d.CheckVoucherNumber, fsm.DisbursementStatusScheduled, d.DateCheckScheduled)
	if err != nil {
		return 0, err
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	id := int(id64)

	for _, crID := range requisitionIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO disbursement_check_requisitions (disbursement_id, check_requisition_id) VALUES (?, ?)`, id, crID); err != nil {
			return 0, err
		}
		if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, crID, fsm.RequisitionStatusApproved, fsm.RequisitionStatusPrinting); err != nil {
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

func (r *DisbursementRepository) GetDisbursementByID(ctx context.Context, id int) (models.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM disbursements WHERE id = ?`
	d, err := scanDisbursement(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Disbursement{}, models.ErrDisbursementNotFound
	}
	if err != nil {
		return models.Disbursement{}, err
	}
	d.RequisitionIDs, err = r.linkedRequisitionIDs(ctx, id)
	return d, err
}

func (r *DisbursementRepository) GetDisbursements(ctx context.Context) ([]models.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM disbursements ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Disbursement
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *DisbursementRepository) linkedRequisitionIDs(ctx context.Context, dID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT check_requisition_id FROM disbursement_check_requisitions WHERE disbursement_id = ? ORDER BY check_requisition_id`, dID)
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

// MarkPrinting moves scheduled -> printing and stamps the printing date.
func (r *DisbursementRepository) MarkPrinting(ctx context.Context, d models.Disbursement, now time.Time, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityDisbursement, d.ID, d.Status, fsm.DisbursementStatusPrinting); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE disbursements SET date_check_printing = ? WHERE id = ?`, now, d.ID); err != nil {
		return err
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// Release stamps date_check_released_to_vendor and runs the downstream
// bookkeeping: linked requisitions printing -> disbursed, their
// pending_disbursement invoices -> paid, and every touched purchase order
// re-synced. Either all of it commits or none does.
func (r *DisbursementRepository) Release(ctx context.Context, d models.Disbursement, now time.Time, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityDisbursement, d.ID, d.Status, fsm.DisbursementStatusReleased); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `UPDATE disbursements SET date_check_released_to_vendor = ? WHERE id = ?`, now, d.ID); err != nil {
		return err
	}

	crIDs, err := linkedRequisitionIDsTx(ctx, tx, d.ID)
	if err != nil {
		return err
	}
	poIDs := map[int]struct{}{}
	for _, crID := range crIDs {
		if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, crID, fsm.RequisitionStatusPrinting, fsm.RequisitionStatusDisbursed); err != nil {
			return err
		}
		invoices, invErr := linkedInvoicesTx(ctx, tx, crID)
		if invErr != nil {
			err = invErr
			return err
		}
		for _, inv := range invoices {
			if inv.Status != fsm.InvoiceStatusPendingDisbursement {
				continue
			}
			if err = fsm.Apply(ctx, tx, fsm.EntityInvoice, inv.ID, inv.Status, fsm.InvoiceStatusPaid); err != nil {
				return err
			}
			if inv.PurchaseOrderID != 0 {
				poIDs[inv.PurchaseOrderID] = struct{}{}
			}
		}
	}
	for poID := range poIDs {
		if _, err = SyncFinancialsTx(ctx, tx, poID); err != nil {
			return err
		}
	}

	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// Void cancels an unreleased disbursement and rolls its requisitions back to
// approved so they can be picked up by another check run.
func (r *DisbursementRepository) Void(ctx context.Context, d models.Disbursement, audit models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fsm.Apply(ctx, tx, fsm.EntityDisbursement, d.ID, d.Status, fsm.DisbursementStatusVoided); err != nil {
		return err
	}

	crIDs, err := linkedRequisitionIDsTx(ctx, tx, d.ID)
	if err != nil {
		return err
	}
	for _, crID := range crIDs {
		if err = fsm.Apply(ctx, tx, fsm.EntityRequisition, crID, fsm.RequisitionStatusPrinting, fsm.RequisitionStatusApproved); err != nil {
			return err
		}
	}
	if err = AppendTx(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func linkedRequisitionIDsTx(ctx context.Context, tx *sql.Tx, dID int) ([]int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT check_requisition_id FROM disbursement_check_requisitions WHERE disbursement_id = ? FOR UPDATE`, dID)
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
