package models

import "time"

// Invoice represents a vendor billing document. PurchaseOrderID is zero for
// direct invoices raised against a project without a purchase order.
type Invoice struct {
	ID              int        `json:"id"`
	InvoiceNumber   string     `json:"invoice_number"`
	PurchaseOrderID int        `json:"purchase_order_id,omitempty"`
	VendorID        int        `json:"vendor_id"`
	InvoiceAmount   float64    `json:"invoice_amount"`
	TaxAmount       float64    `json:"tax_amount"`
	DiscountAmount  float64    `json:"discount_amount"`
	NetAmount       float64    `json:"net_amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	ReceivedAt      *time.Time `json:"received_at,omitempty"`
	AttachmentURL   string     `json:"attachment_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Net returns invoice_amount + tax_amount - discount_amount.
func (i Invoice) Net() float64 {
	return i.InvoiceAmount + i.TaxAmount - i.DiscountAmount
}
