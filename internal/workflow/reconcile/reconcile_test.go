package reconcile

import (
	"testing"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

func TestComputeExcludesRejected(t *testing.T) {
	po := models.PurchaseOrder{ID: 1, POAmount: 5000, OutstandingAmount: 5000}
	invoices := []models.Invoice{
		{InvoiceAmount: 500, NetAmount: 500, Status: fsm.InvoiceStatusRejected},
		{InvoiceAmount: 700, NetAmount: 700, Status: fsm.InvoiceStatusRejected},
	}
	snap := Compute(po, invoices)
	if snap.TotalInvoiced != 0 {
		t.Fatalf("rejected invoices must not count, got total_invoiced=%v", snap.TotalInvoiced)
	}
	if snap.TotalPaid != 0 {
		t.Fatalf("expected total_paid 0, got %v", snap.TotalPaid)
	}
	if snap.OutstandingAmount != 5000 {
		t.Fatalf("expected outstanding 5000, got %v", snap.OutstandingAmount)
	}

	// cached zeros are in sync even though the raw invoice sum is 1200
	found := Verify(po, invoices)
	if len(found) != 0 {
		t.Fatalf("expected no discrepancies, got %v", found)
	}
}

func TestComputePaidUsesNetAmount(t *testing.T) {
	po := models.PurchaseOrder{ID: 2, POAmount: 10000}
	inv := models.Invoice{InvoiceAmount: 1000, TaxAmount: 120, DiscountAmount: 0, Status: fsm.InvoiceStatusPending}
	inv.NetAmount = inv.Net()
	if inv.NetAmount != 1120 {
		t.Fatalf("net_amount: expected 1120, got %v", inv.NetAmount)
	}

	snap := Compute(po, []models.Invoice{inv})
	if snap.TotalInvoiced != 1000 {
		t.Fatalf("expected total_invoiced 1000, got %v", snap.TotalInvoiced)
	}
	if snap.TotalPaid != 0 {
		t.Fatalf("unpaid invoice must not count towards total_paid")
	}

	inv.Status = fsm.InvoiceStatusPaid
	snap = Compute(po, []models.Invoice{inv})
	if snap.TotalPaid != 1120 {
		t.Fatalf("expected total_paid = net_amount 1120, got %v", snap.TotalPaid)
	}
	if snap.OutstandingAmount != 10000-1120 {
		t.Fatalf("expected outstanding %v, got %v", 10000-1120, snap.OutstandingAmount)
	}
}

func TestComputeZeroInvoices(t *testing.T) {
	po := models.PurchaseOrder{ID: 3, POAmount: 250}
	snap := Compute(po, nil)
	if snap.TotalInvoiced != 0 || snap.TotalPaid != 0 {
		t.Fatalf("expected zero totals, got %+v", snap)
	}
	if snap.OutstandingAmount != 250 {
		t.Fatalf("expected outstanding = po_amount, got %v", snap.OutstandingAmount)
	}
}

func TestComputeIdempotent(t *testing.T) {
	po := models.PurchaseOrder{ID: 4, POAmount: 9000}
	invoices := []models.Invoice{
		{InvoiceAmount: 3000, NetAmount: 3360, Status: fsm.InvoiceStatusPaid},
		{InvoiceAmount: 1500, NetAmount: 1680, Status: fsm.InvoiceStatusApproved},
	}
	first := Compute(po, invoices)

	// persist the snapshot, then verify and recompute: nothing moves
	po.TotalInvoiced = first.TotalInvoiced
	po.TotalPaid = first.TotalPaid
	po.OutstandingAmount = first.OutstandingAmount
	if found := Verify(po, invoices); len(found) != 0 {
		t.Fatalf("synced purchase order reports drift: %v", found)
	}
	second := Compute(po, invoices)
	if second != first {
		t.Fatalf("recompute changed values: %+v vs %+v", second, first)
	}
}

func TestVerifyReportsDrift(t *testing.T) {
	po := models.PurchaseOrder{
		ID:                5,
		POAmount:          4000,
		TotalInvoiced:     999,
		TotalPaid:         0,
		OutstandingAmount: 4000,
	}
	invoices := []models.Invoice{
		{InvoiceAmount: 1000, NetAmount: 1000, Status: fsm.InvoiceStatusReceived},
	}
	found := Verify(po, invoices)
	d, ok := found["total_invoiced"]
	if !ok {
		t.Fatalf("expected total_invoiced drift, got %v", found)
	}
	if d.Stored != 999 || d.Calculated != 1000 || d.Difference != -1 {
		t.Fatalf("unexpected discrepancy %+v", d)
	}
	if _, ok := found["total_paid"]; ok {
		t.Fatal("total_paid is in sync and must not be reported")
	}
}

func TestVerifyToleratesRounding(t *testing.T) {
	po := models.PurchaseOrder{ID: 6, POAmount: 100, TotalInvoiced: 33.333, OutstandingAmount: 100}
	invoices := []models.Invoice{
		{InvoiceAmount: 33.34, NetAmount: 33.34, Status: fsm.InvoiceStatusPending},
	}
	if found := Verify(po, invoices); len(found) != 0 {
		t.Fatalf("sub-epsilon difference reported: %v", found)
	}
}

func TestReportCapsRows(t *testing.T) {
	var r Report
	drift := map[string]Discrepancy{"total_paid": {Stored: 1, Calculated: 2, Difference: -1}}
	for i := 0; i < MaxReportRows+20; i++ {
		r.Add(i+1, drift)
	}
	if r.Checked != MaxReportRows+20 {
		t.Fatalf("expected %d checked, got %d", MaxReportRows+20, r.Checked)
	}
	if r.OutOfSync != MaxReportRows+20 {
		t.Fatalf("expected every order out of sync, got %d", r.OutOfSync)
	}
	if len(r.Discrepancies) != MaxReportRows {
		t.Fatalf("expected detail capped at %d rows, got %d", MaxReportRows, len(r.Discrepancies))
	}

	var clean Report
	clean.Add(1, nil)
	if clean.OutOfSync != 0 || len(clean.Discrepancies) != 0 {
		t.Fatalf("in-sync order counted as drifted: %+v", clean)
	}
}
