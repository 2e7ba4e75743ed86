package models

import "time"

// PurchaseOrder is the aggregate root for invoicing. TotalInvoiced, TotalPaid
// and OutstandingAmount are cached sums over the child invoices and are kept
// consistent by the reconciliation routine, never written by hand.
type PurchaseOrder struct {
	ID                int        `json:"id"`
	PONumber          string     `json:"po_number"`
	VendorID          int        `json:"vendor_id"`
	ProjectID         int        `json:"project_id"`
	Description       string     `json:"description,omitempty"`
	POAmount          float64    `json:"po_amount"`
	Currency          string     `json:"currency"`
	TotalInvoiced     float64    `json:"total_invoiced"`
	TotalPaid         float64    `json:"total_paid"`
	OutstandingAmount float64    `json:"outstanding_amount"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

const (
	PurchaseOrderStatusOpen   = "open"
	PurchaseOrderStatusClosed = "closed"
)
