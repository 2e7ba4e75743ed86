package services

import (
	"context"
	"fmt"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
	"zakupBack/internal/workflow/fsm"
)

type InvoiceService struct {
	InvoiceRepo *repositories.InvoiceRepository
	AuditRepo   *repositories.AuditRepository
}

// CreateInvoice validates the amounts, derives the net amount and stores the
// invoice in pending.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv models.Invoice, actorID int) (models.Invoice, error) {
	if inv.InvoiceNumber == "" {
		return models.Invoice{}, fmt.Errorf("invoice number is required")
	}
	if inv.InvoiceAmount < 0 || inv.TaxAmount < 0 || inv.DiscountAmount < 0 {
		return models.Invoice{}, fmt.Errorf("invoice amounts cannot be negative")
	}
	inv.NetAmount = inv.Net()
	if inv.NetAmount < 0 {
		return models.Invoice{}, fmt.Errorf("net amount cannot be negative")
	}
	if inv.Currency == "" {
		inv.Currency = "KZT"
	}

	audit := models.AuditEntry{
		EntityType: fsm.EntityInvoice,
		Action:     "create",
		FieldDiffs: diffJSON(map[string]models.FieldDiff{
			"status":     {Old: nil, New: fsm.InvoiceStatusPending},
			"net_amount": {Old: nil, New: inv.NetAmount},
		}),
		ActorID: actorID,
	}
	id, err := s.InvoiceRepo.CreateInvoice(ctx, inv, audit)
	if err != nil {
		return models.Invoice{}, err
	}
	return s.InvoiceRepo.GetInvoiceByID(ctx, id)
}

func (s *InvoiceService) GetInvoiceByID(ctx context.Context, id int) (models.Invoice, error) {
	return s.InvoiceRepo.GetInvoiceByID(ctx, id)
}

func (s *InvoiceService) GetInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.InvoiceRepo.GetInvoices(ctx)
}

func (s *InvoiceService) GetInvoicesByPurchaseOrder(ctx context.Context, poID int) ([]models.Invoice, error) {
	return s.InvoiceRepo.GetInvoicesByPurchaseOrder(ctx, poID)
}

func (s *InvoiceService) GetInvoicesByStatus(ctx context.Context, status string) ([]models.Invoice, error) {
	return s.InvoiceRepo.GetInvoicesByStatus(ctx, status)
}

// UpdateInvoice rewrites the document fields. Paid invoices are frozen; a
// re-parented invoice triggers a re-sync of both purchase orders.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, inv models.Invoice, actorID int) (models.Invoice, error) {
	current, err := s.InvoiceRepo.GetInvoiceByID(ctx, inv.ID)
	if err != nil {
		return models.Invoice{}, err
	}
	if fsm.Terminal(fsm.EntityInvoice, current.Status) {
		return models.Invoice{}, models.ErrEntityImmutable
	}
	if inv.InvoiceAmount < 0 || inv.TaxAmount < 0 || inv.DiscountAmount < 0 {
		return models.Invoice{}, fmt.Errorf("invoice amounts cannot be negative")
	}
	inv.NetAmount = inv.Net()
	if inv.NetAmount < 0 {
		return models.Invoice{}, fmt.Errorf("net amount cannot be negative")
	}
	if inv.Currency == "" {
		inv.Currency = current.Currency
	}

	diffs := map[string]models.FieldDiff{}
	if current.InvoiceAmount != inv.InvoiceAmount {
		diffs["invoice_amount"] = models.FieldDiff{Old: current.InvoiceAmount, New: inv.InvoiceAmount}
	}
	if current.NetAmount != inv.NetAmount {
		diffs["net_amount"] = models.FieldDiff{Old: current.NetAmount, New: inv.NetAmount}
	}
	if current.PurchaseOrderID != inv.PurchaseOrderID {
		diffs["purchase_order_id"] = models.FieldDiff{Old: current.PurchaseOrderID, New: inv.PurchaseOrderID}
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityInvoice,
		EntityID:   inv.ID,
		Action:     "update",
		FieldDiffs: diffJSON(diffs),
		ActorID:    actorID,
	}
	if err := s.InvoiceRepo.UpdateInvoice(ctx, inv, current.PurchaseOrderID, audit); err != nil {
		return models.Invoice{}, err
	}
	return s.InvoiceRepo.GetInvoiceByID(ctx, inv.ID)
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id, actorID int) error {
	current, err := s.InvoiceRepo.GetInvoiceByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == fsm.InvoiceStatusPaid {
		return models.ErrEntityImmutable
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityInvoice,
		EntityID:   id,
		Action:     "delete",
		ActorID:    actorID,
	}
	return s.InvoiceRepo.DeleteInvoice(ctx, current, audit)
}

// Receive confirms physical receipt of the document: pending -> received.
func (s *InvoiceService) Receive(ctx context.Context, id, actorID int) (models.Invoice, error) {
	now := time.Now()
	return s.transition(ctx, id, fsm.InvoiceStatusReceived, "receive", actorID, &now)
}

// Approve moves received -> approved.
func (s *InvoiceService) Approve(ctx context.Context, id, actorID int) (models.Invoice, error) {
	return s.transition(ctx, id, fsm.InvoiceStatusApproved, "approve", actorID, nil)
}

// Reject moves received -> rejected.
func (s *InvoiceService) Reject(ctx context.Context, id, actorID int) (models.Invoice, error) {
	return s.transition(ctx, id, fsm.InvoiceStatusRejected, "reject", actorID, nil)
}

// Reset returns a rejected invoice to pending for correction.
func (s *InvoiceService) Reset(ctx context.Context, id, actorID int) (models.Invoice, error) {
	return s.transition(ctx, id, fsm.InvoiceStatusPending, "reset", actorID, nil)
}

func (s *InvoiceService) transition(ctx context.Context, id int, target, action string, actorID int, receivedAt *time.Time) (models.Invoice, error) {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	// fail fast with the typed error before touching the row
	if err := fsm.Transition(fsm.EntityInvoice, inv.Status, target); err != nil {
		return models.Invoice{}, err
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityInvoice,
		EntityID:   id,
		Action:     action,
		FieldDiffs: statusDiff(inv.Status, target),
		ActorID:    actorID,
	}
	if err := s.InvoiceRepo.ApplyStatus(ctx, inv, target, receivedAt, audit); err != nil {
		return models.Invoice{}, err
	}
	return s.InvoiceRepo.GetInvoiceByID(ctx, id)
}

// AttachDocument stores the scanned document URL on the invoice.
func (s *InvoiceService) AttachDocument(ctx context.Context, id int, url string, actorID int) error {
	inv, err := s.InvoiceRepo.GetInvoiceByID(ctx, id)
	if err != nil {
		return err
	}
	if fsm.Terminal(fsm.EntityInvoice, inv.Status) {
		return models.ErrEntityImmutable
	}
	if err := s.InvoiceRepo.SetAttachmentURL(ctx, id, url); err != nil {
		return err
	}
	return s.AuditRepo.Append(ctx, models.AuditEntry{
		EntityType: fsm.EntityInvoice,
		EntityID:   id,
		Action:     "attach",
		FieldDiffs: diffJSON(map[string]models.FieldDiff{"attachment_url": {Old: inv.AttachmentURL, New: url}}),
		ActorID:    actorID,
	})
}

// MarkOverdue runs the overdue sweep once. Safe to re-run: invoices already
// overdue are not candidates.
func (s *InvoiceService) MarkOverdue(ctx context.Context, now time.Time) ([]repositories.OverdueInvoice, error) {
	return s.InvoiceRepo.MarkOverdue(ctx, now, 0)
}

func (s *InvoiceService) GetAuditTrail(ctx context.Context, id int) ([]models.AuditEntry, error) {
	return s.AuditRepo.ListByEntity(ctx, fsm.EntityInvoice, id)
}
