package fsm

import (
	"context"
	"database/sql"
	"fmt"
)

// Status constants used by the invoice state machine.
const (
	InvoiceStatusPending             = "pending"
	InvoiceStatusReceived            = "received"
	InvoiceStatusApproved            = "approved"
	InvoiceStatusRejected            = "rejected"
	InvoiceStatusPendingDisbursement = "pending_disbursement"
	InvoiceStatusPaid                = "paid"
	InvoiceStatusOverdue             = "overdue"
)

// Status constants used by the check requisition state machine.
const (
	RequisitionStatusPending   = "pending"
	RequisitionStatusApproved  = "approved"
	RequisitionStatusRejected  = "rejected"
	RequisitionStatusPrinting  = "printing"
	RequisitionStatusDisbursed = "disbursed"
)

// Status constants used by the disbursement state machine.
const (
	DisbursementStatusScheduled = "scheduled"
	DisbursementStatusPrinting  = "printing"
	DisbursementStatusReleased  = "released"
	DisbursementStatusVoided    = "voided"
)

// Entity names used in transition errors and audit rows.
const (
	EntityInvoice      = "invoice"
	EntityRequisition  = "check_requisition"
	EntityDisbursement = "disbursement"
)

var invoiceTransitions = map[string]map[string]struct{}{
	InvoiceStatusPending:  {InvoiceStatusReceived: {}},
	InvoiceStatusReceived: {InvoiceStatusApproved: {}, InvoiceStatusRejected: {}},
	InvoiceStatusApproved: {InvoiceStatusPendingDisbursement: {}},
	// manual reset after a rejection
	InvoiceStatusRejected: {InvoiceStatusPending: {}},
	InvoiceStatusPendingDisbursement: {
		InvoiceStatusPaid: {},
		// rollback when the parent requisition is rejected
		InvoiceStatusApproved: {},
	},
	InvoiceStatusPaid: {},
	// set by the overdue sweeper only, never through Apply
	InvoiceStatusOverdue: {},
}

var requisitionTransitions = map[string]map[string]struct{}{
	RequisitionStatusPending:  {RequisitionStatusApproved: {}, RequisitionStatusRejected: {}},
	RequisitionStatusRejected: {RequisitionStatusPending: {}},
	RequisitionStatusApproved: {RequisitionStatusPrinting: {}},
	RequisitionStatusPrinting: {
		RequisitionStatusDisbursed: {},
		// rollback when the disbursement is voided before release
		RequisitionStatusApproved: {},
	},
	RequisitionStatusDisbursed: {},
}

var disbursementTransitions = map[string]map[string]struct{}{
	DisbursementStatusScheduled: {DisbursementStatusPrinting: {}, DisbursementStatusVoided: {}},
	DisbursementStatusPrinting:  {DisbursementStatusReleased: {}, DisbursementStatusVoided: {}},
	DisbursementStatusReleased:  {},
	DisbursementStatusVoided:    {},
}

var tables = map[string]map[string]map[string]struct{}{
	EntityInvoice:      invoiceTransitions,
	EntityRequisition:  requisitionTransitions,
	EntityDisbursement: disbursementTransitions,
}

var sqlTables = map[string]string{
	EntityInvoice:      "invoices",
	EntityRequisition:  "check_requisitions",
	EntityDisbursement: "disbursements",
}

// InvalidTransitionError names the rejected move.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: transition from %q to %q is not allowed", e.Entity, e.From, e.To)
}

// AllowedTransitions returns the legal next statuses for the current one.
// Terminal statuses return an empty slice. Unknown statuses return nil.
func AllowedTransitions(entity, from string) []string {
	table, ok := tables[entity]
	if !ok {
		return nil
	}
	allowed, ok := table[from]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(allowed))
	for status := range allowed {
		out = append(out, status)
	}
	return out
}

// CanTransition returns whether the entity can move from one status to the target.
func CanTransition(entity, from, to string) bool {
	table, ok := tables[entity]
	if !ok {
		return false
	}
	allowed, ok := table[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Transition validates the move without touching storage. Callers that hold
// the entity in memory use this before persisting.
func Transition(entity, from, to string) error {
	if !CanTransition(entity, from, to) {
		return &InvalidTransitionError{Entity: entity, From: from, To: to}
	}
	return nil
}

// Terminal reports whether the status has no outgoing transitions.
func Terminal(entity, status string) bool {
	table, ok := tables[entity]
	if !ok {
		return false
	}
	allowed, ok := table[status]
	if !ok {
		return false
	}
	return len(allowed) == 0
}

// Apply updates an entity status using optimistic validation. The UPDATE is
// compare-and-swap on the current status, so a raced or illegal move changes
// nothing and surfaces as sql.ErrNoRows.
func Apply(ctx context.Context, tx *sql.Tx, entity string, id int, fromStatus, toStatus string) error {
	if err := Transition(entity, fromStatus, toStatus); err != nil {
		return err
	}
	table, ok := sqlTables[entity]
	if !ok {
		return fmt.Errorf("unknown entity %q", entity)
	}
	res, err := tx.ExecContext(ctx, `UPDATE `+table+` SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`, toStatus, id, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
