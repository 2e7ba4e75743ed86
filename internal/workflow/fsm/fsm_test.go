package fsm

import "testing"

func TestCanTransitionInvoice(t *testing.T) {
	if !CanTransition(EntityInvoice, InvoiceStatusPending, InvoiceStatusReceived) {
		t.Fatal("expected pending -> received to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusReceived, InvoiceStatusApproved) {
		t.Fatal("expected received -> approved to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusReceived, InvoiceStatusRejected) {
		t.Fatal("expected received -> rejected to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusApproved, InvoiceStatusPendingDisbursement) {
		t.Fatal("expected approved -> pending_disbursement to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusRejected, InvoiceStatusPending) {
		t.Fatal("expected rejected -> pending to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusPendingDisbursement, InvoiceStatusPaid) {
		t.Fatal("expected pending_disbursement -> paid to be allowed")
	}
	if !CanTransition(EntityInvoice, InvoiceStatusPendingDisbursement, InvoiceStatusApproved) {
		t.Fatal("expected pending_disbursement -> approved rollback to be allowed")
	}
	if CanTransition(EntityInvoice, InvoiceStatusPending, InvoiceStatusPaid) {
		t.Fatal("pending -> paid must pass through received, approved, pending_disbursement")
	}
	if CanTransition(EntityInvoice, InvoiceStatusPaid, InvoiceStatusPending) {
		t.Fatal("paid is terminal")
	}
	if CanTransition(EntityInvoice, InvoiceStatusOverdue, InvoiceStatusPending) {
		t.Fatal("overdue is system-managed and terminal")
	}
}

func TestCanTransitionRequisition(t *testing.T) {
	if !CanTransition(EntityRequisition, RequisitionStatusPending, RequisitionStatusApproved) {
		t.Fatal("expected pending -> approved to be allowed")
	}
	if !CanTransition(EntityRequisition, RequisitionStatusApproved, RequisitionStatusPrinting) {
		t.Fatal("expected approved -> printing to be allowed")
	}
	if !CanTransition(EntityRequisition, RequisitionStatusPrinting, RequisitionStatusDisbursed) {
		t.Fatal("expected printing -> disbursed to be allowed")
	}
	if !CanTransition(EntityRequisition, RequisitionStatusPrinting, RequisitionStatusApproved) {
		t.Fatal("expected printing -> approved rollback to be allowed")
	}
	if CanTransition(EntityRequisition, RequisitionStatusPending, RequisitionStatusDisbursed) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(EntityRequisition, RequisitionStatusDisbursed, RequisitionStatusPending) {
		t.Fatal("disbursed is terminal")
	}
}

func TestCanTransitionDisbursement(t *testing.T) {
	if !CanTransition(EntityDisbursement, DisbursementStatusScheduled, DisbursementStatusPrinting) {
		t.Fatal("expected scheduled -> printing to be allowed")
	}
	if !CanTransition(EntityDisbursement, DisbursementStatusPrinting, DisbursementStatusReleased) {
		t.Fatal("expected printing -> released to be allowed")
	}
	if !CanTransition(EntityDisbursement, DisbursementStatusPrinting, DisbursementStatusVoided) {
		t.Fatal("expected printing -> voided to be allowed")
	}
	if CanTransition(EntityDisbursement, DisbursementStatusReleased, DisbursementStatusScheduled) {
		t.Fatal("released is terminal")
	}
	if CanTransition(EntityDisbursement, DisbursementStatusVoided, DisbursementStatusScheduled) {
		t.Fatal("voided is terminal")
	}
}

func TestAllowedTransitionsTerminal(t *testing.T) {
	terminals := []struct {
		entity string
		status string
	}{
		{EntityInvoice, InvoiceStatusPaid},
		{EntityInvoice, InvoiceStatusOverdue},
		{EntityRequisition, RequisitionStatusDisbursed},
		{EntityDisbursement, DisbursementStatusReleased},
		{EntityDisbursement, DisbursementStatusVoided},
	}
	for _, tc := range terminals {
		if got := AllowedTransitions(tc.entity, tc.status); len(got) != 0 {
			t.Fatalf("%s %s: expected no outgoing transitions, got %v", tc.entity, tc.status, got)
		}
		if !Terminal(tc.entity, tc.status) {
			t.Fatalf("%s %s: expected terminal", tc.entity, tc.status)
		}
	}
	if Terminal(EntityInvoice, InvoiceStatusPending) {
		t.Fatal("pending is not terminal")
	}
}

func TestTransitionError(t *testing.T) {
	err := Transition(EntityInvoice, InvoiceStatusPending, InvoiceStatusPaid)
	if err == nil {
		t.Fatal("expected error for illegal transition")
	}
	te, ok := err.(*InvalidTransitionError)
	if !ok {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if te.From != InvoiceStatusPending || te.To != InvoiceStatusPaid {
		t.Fatalf("error does not name the attempted move: %v", te)
	}
	if err := Transition(EntityInvoice, InvoiceStatusPending, InvoiceStatusReceived); err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}
}

func TestUnknownEntityAndStatus(t *testing.T) {
	if CanTransition("widget", "a", "b") {
		t.Fatal("unknown entity must not transition")
	}
	if got := AllowedTransitions(EntityInvoice, "bogus"); got != nil {
		t.Fatalf("expected nil for unknown status, got %v", got)
	}
}
