package models

import "time"

// Disbursement is the physical check covering one or more approved check
// requisitions. Once DateCheckReleasedToVendor is set the record is frozen.
type Disbursement struct {
	ID                        int        `json:"id"`
	CheckVoucherNumber        string     `json:"check_voucher_number"`
	Status                    string     `json:"status"`
	DateCheckScheduled        *time.Time `json:"date_check_scheduled,omitempty"`
	DateCheckPrinting         *time.Time `json:"date_check_printing,omitempty"`
	DateCheckReleasedToVendor *time.Time `json:"date_check_released_to_vendor,omitempty"`
	RequisitionIDs            []int      `json:"requisition_ids,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`
}

// Released reports whether the check has left the building.
func (d Disbursement) Released() bool {
	return d.DateCheckReleasedToVendor != nil
}
