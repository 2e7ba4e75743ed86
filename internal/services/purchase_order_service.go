package services

import (
	"context"
	"fmt"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
	"zakupBack/internal/workflow/reconcile"
)

type PurchaseOrderService struct {
	PORepo    *repositories.PurchaseOrderRepository
	Dashboard *DashboardService
}

// reconcileBatchSize bounds one page of the verification sweep.
const reconcileBatchSize = 100

func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	if po.PONumber == "" {
		return models.PurchaseOrder{}, fmt.Errorf("po number is required")
	}
	if po.POAmount < 0 {
		return models.PurchaseOrder{}, fmt.Errorf("po amount cannot be negative")
	}
	if po.Currency == "" {
		po.Currency = "KZT"
	}
	id, err := s.PORepo.CreatePurchaseOrder(ctx, po)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	return s.PORepo.GetPurchaseOrderByID(ctx, id)
}

func (s *PurchaseOrderService) GetPurchaseOrderByID(ctx context.Context, id int) (models.PurchaseOrder, error) {
	return s.PORepo.GetPurchaseOrderByID(ctx, id)
}

func (s *PurchaseOrderService) GetPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	return s.PORepo.GetPurchaseOrders(ctx)
}

func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) error {
	if err := s.PORepo.UpdatePurchaseOrder(ctx, po); err != nil {
		return err
	}
	// po_amount may have changed, outstanding follows it
	if _, err := s.PORepo.SyncFinancials(ctx, po.ID); err != nil {
		return err
	}
	s.Dashboard.Invalidate(ctx)
	return nil
}

// VerifyFinancials reports cached fields that drifted from the live sums.
func (s *PurchaseOrderService) VerifyFinancials(ctx context.Context, id int) (map[string]reconcile.Discrepancy, error) {
	return s.PORepo.VerifyFinancials(ctx, id)
}

// SyncFinancials recomputes and persists the cached totals.
func (s *PurchaseOrderService) SyncFinancials(ctx context.Context, id int) (reconcile.Snapshot, error) {
	snapshot, err := s.PORepo.SyncFinancials(ctx, id)
	if err != nil {
		return reconcile.Snapshot{}, err
	}
	s.Dashboard.Invalidate(ctx)
	return snapshot, nil
}

// RunReconciliation walks every purchase order in bounded batches, verifies
// the cached totals and, when repair is set, overwrites drifted ones. The
// report carries the first discrepancies found.
func (s *PurchaseOrderService) RunReconciliation(ctx context.Context, repair bool) (reconcile.Report, error) {
	var report reconcile.Report
	afterID := 0
	for {
		batch, err := s.PORepo.ListBatch(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return report, err
		}
		if len(batch) == 0 {
			// repaired totals must not be served from the stale snapshot
			if report.Repaired > 0 {
				s.Dashboard.Invalidate(ctx)
			}
			return report, nil
		}
		for _, po := range batch {
			found, err := s.PORepo.VerifyFinancials(ctx, po.ID)
			if err != nil {
				return report, err
			}
			report.Add(po.ID, found)
			if repair && len(found) > 0 {
				if _, err := s.PORepo.SyncFinancials(ctx, po.ID); err != nil {
					return report, err
				}
				report.Repaired++
			}
			afterID = po.ID
		}
	}
}
