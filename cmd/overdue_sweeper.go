package main

import (
	"context"
	"log"
	"time"

	"zakupBack/internal/handlers"
	"zakupBack/internal/services"
	"zakupBack/internal/workflow/fsm"
)

const overdueSweeperTimeout = 1 * time.Minute

// startOverdueSweeper flips invoices past their due date to overdue on a
// timer. The query excludes invoices already marked, so reruns are no-ops.
func startOverdueSweeper(ctx context.Context, svc *services.InvoiceService, hub *handlers.EventsHub, intervalHours int, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, overdueSweeperTimeout)
			marked, err := svc.MarkOverdue(runCtx, time.Now())
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("overdue sweeper: %v", err)
				}
				return
			}
			if len(marked) > 0 && infoLog != nil {
				infoLog.Printf("overdue sweeper: marked %d invoices", len(marked))
			}
			for _, m := range marked {
				hub.Publish(fsm.EntityInvoice, m.ID, "overdue", fsm.InvoiceStatusOverdue, 0, map[string]interface{}{
					"days_overdue": m.DaysOverdue,
				})
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
