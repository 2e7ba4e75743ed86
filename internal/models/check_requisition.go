package models

import "time"

// CheckRequisition is a request to pay a batch of approved invoices by check.
// The invoices are linked through check_requisition_invoices and must all
// share the requisition currency.
type CheckRequisition struct {
	ID                int        `json:"id"`
	RequisitionNumber string     `json:"requisition_number"`
	RequestedAmount   float64    `json:"requested_amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	RequesterID       int        `json:"requester_id"`
	ReviewerID        int        `json:"reviewer_id,omitempty"`
	ApproverID        int        `json:"approver_id,omitempty"`
	InvoiceIDs        []int      `json:"invoice_ids,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}
