package main

import (
	"context"
	"log"
	"time"

	"zakupBack/internal/services"
)

const reconcileSweeperTimeout = 5 * time.Minute

// startReconcileSweeper periodically recalculates the cached purchase
// order sums and repairs any drift.
func startReconcileSweeper(ctx context.Context, svc *services.PurchaseOrderService, intervalMinutes int, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, reconcileSweeperTimeout)
			report, err := svc.RunReconciliation(runCtx, true)
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("reconcile sweeper: %v", err)
				}
				return
			}
			if report.OutOfSync > 0 && infoLog != nil {
				infoLog.Printf("reconcile sweeper: checked %d orders, repaired %d", report.Checked, report.Repaired)
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
