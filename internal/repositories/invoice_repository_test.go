package repositories

import (
	"testing"
	"time"

	"zakupBack/internal/workflow/fsm"
)

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due date", due.AddDate(0, 0, -5), 0},
		{"on due date", due, 0},
		{"same day later", due.Add(6 * time.Hour), 0},
		{"one day", due.AddDate(0, 0, 1), 1},
		{"ten days", due.AddDate(0, 0, 10), 10},
	}

	for _, tc := range cases {
		if got := DaysOverdue(due, tc.now); got != tc.want {
			t.Errorf("%s: DaysOverdue = %d, want %d", tc.name, got, tc.want)
		}
	}
}

// The sweep candidate set must track the state machine: every non-terminal
// invoice status is eligible, rejected included, and terminal ones never are.
func TestOverdueCandidateStatuses(t *testing.T) {
	candidates := map[string]struct{}{}
	for _, status := range overdueCandidateStatuses {
		candidates[status] = struct{}{}
		if fsm.Terminal(fsm.EntityInvoice, status) {
			t.Errorf("terminal status %q must not be a sweep candidate", status)
		}
	}

	nonTerminal := []string{
		fsm.InvoiceStatusPending,
		fsm.InvoiceStatusReceived,
		fsm.InvoiceStatusApproved,
		fsm.InvoiceStatusRejected,
		fsm.InvoiceStatusPendingDisbursement,
	}
	for _, status := range nonTerminal {
		if _, ok := candidates[status]; !ok {
			t.Errorf("non-terminal status %q missing from the sweep candidates", status)
		}
	}

	for _, status := range []string{fsm.InvoiceStatusPaid, fsm.InvoiceStatusOverdue} {
		if _, ok := candidates[status]; ok {
			t.Errorf("terminal status %q must not be a sweep candidate", status)
		}
	}
}
