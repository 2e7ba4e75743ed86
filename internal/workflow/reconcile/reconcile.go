// Package reconcile keeps purchase order cached financial fields consistent
// with the live child invoices. Computation is pure; persistence stays in the
// repositories.
package reconcile

import (
	"math"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

// Epsilon absorbs decimal rounding when comparing stored against calculated
// amounts, in currency units.
const Epsilon = 0.01

// Snapshot is a freshly computed set of purchase order financials.
type Snapshot struct {
	TotalInvoiced     float64 `json:"total_invoiced"`
	TotalPaid         float64 `json:"total_paid"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

// Discrepancy reports one cached field that drifted from its calculated value.
type Discrepancy struct {
	Stored     float64 `json:"stored"`
	Calculated float64 `json:"calculated"`
	Difference float64 `json:"difference"`
}

// Compute sums the live child invoices: rejected invoices are excluded from
// total_invoiced, total_paid covers net amounts of paid invoices, and
// outstanding_amount = po_amount - total_paid. Zero invoices yield a zero
// snapshot.
func Compute(po models.PurchaseOrder, invoices []models.Invoice) Snapshot {
	var snap Snapshot
	for _, inv := range invoices {
		if inv.Status == fsm.InvoiceStatusRejected {
			continue
		}
		snap.TotalInvoiced += inv.InvoiceAmount
		if inv.Status == fsm.InvoiceStatusPaid {
			snap.TotalPaid += inv.NetAmount
		}
	}
	snap.OutstandingAmount = po.POAmount - snap.TotalPaid
	return snap
}

// Verify compares the stored fields against a fresh computation and returns
// only the fields that drifted beyond Epsilon. An empty map means in sync.
func Verify(po models.PurchaseOrder, invoices []models.Invoice) map[string]Discrepancy {
	snap := Compute(po, invoices)
	out := map[string]Discrepancy{}
	compare(out, "total_invoiced", po.TotalInvoiced, snap.TotalInvoiced)
	compare(out, "total_paid", po.TotalPaid, snap.TotalPaid)
	compare(out, "outstanding_amount", po.OutstandingAmount, snap.OutstandingAmount)
	return out
}

func compare(out map[string]Discrepancy, field string, stored, calculated float64) {
	diff := stored - calculated
	if math.Abs(diff) > Epsilon {
		out[field] = Discrepancy{Stored: stored, Calculated: calculated, Difference: diff}
	}
}

// ReportRow is one out-of-sync purchase order field in a sweep report.
type ReportRow struct {
	PurchaseOrderID int     `json:"purchase_order_id"`
	Field           string  `json:"field"`
	Stored          float64 `json:"stored"`
	Calculated      float64 `json:"calculated"`
	Difference      float64 `json:"difference"`
}

// Report summarises a verification sweep over all purchase orders.
type Report struct {
	Checked       int         `json:"checked"`
	OutOfSync     int         `json:"out_of_sync"`
	Repaired      int         `json:"repaired"`
	Discrepancies []ReportRow `json:"discrepancies,omitempty"`
}

// MaxReportRows caps the discrepancy detail carried in one report.
const MaxReportRows = 50

// Add folds one purchase order verification into the report.
func (r *Report) Add(poID int, found map[string]Discrepancy) {
	r.Checked++
	if len(found) == 0 {
		return
	}
	r.OutOfSync++
	for field, d := range found {
		if len(r.Discrepancies) >= MaxReportRows {
			return
		}
		r.Discrepancies = append(r.Discrepancies, ReportRow{
			PurchaseOrderID: poID,
			Field:           field,
			Stored:          d.Stored,
			Calculated:      d.Calculated,
			Difference:      d.Difference,
		})
	}
}
