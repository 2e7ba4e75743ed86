package models

import "time"

// Vendor is a supplier that invoices the company against purchase orders.
type Vendor struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	BIN           string     `json:"bin"`
	ContactPerson string     `json:"contact_person,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

const (
	VendorStatusActive   = "active"
	VendorStatusArchived = "archived"
)
