package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
	"zakupBack/internal/workflow/fsm"
)

type CheckRequisitionService struct {
	RequisitionRepo *repositories.CheckRequisitionRepository
	AuditRepo       *repositories.AuditRepository
}

// CreateFromInvoices builds a requisition covering the given approved
// invoices. Currency and status checks happen inside the repository
// transaction against locked rows.
func (s *CheckRequisitionService) CreateFromInvoices(ctx context.Context, requesterID int, invoiceIDs []int) (models.CheckRequisition, error) {
	if requesterID == 0 {
		return models.CheckRequisition{}, fmt.Errorf("requester is required")
	}
	cr := models.CheckRequisition{
		RequisitionNumber: newRequisitionNumber(),
		RequesterID:       requesterID,
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityRequisition,
		Action:     "create",
		FieldDiffs: diffJSON(map[string]models.FieldDiff{
			"status":   {Old: nil, New: fsm.RequisitionStatusPending},
			"invoices": {Old: nil, New: invoiceIDs},
		}),
		ActorID: requesterID,
	}
	id, err := s.RequisitionRepo.CreateWithInvoices(ctx, cr, invoiceIDs, audit)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	return s.RequisitionRepo.GetRequisitionByID(ctx, id)
}

func newRequisitionNumber() string {
	return "CR-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *CheckRequisitionService) GetRequisitionByID(ctx context.Context, id int) (models.CheckRequisition, error) {
	return s.RequisitionRepo.GetRequisitionByID(ctx, id)
}

func (s *CheckRequisitionService) GetRequisitions(ctx context.Context) ([]models.CheckRequisition, error) {
	return s.RequisitionRepo.GetRequisitions(ctx)
}

// Approve moves the requisition to approved and its invoices to
// pending_disbursement.
func (s *CheckRequisitionService) Approve(ctx context.Context, id, approverID int) (models.CheckRequisition, error) {
	cr, err := s.guarded(ctx, id, fsm.RequisitionStatusApproved)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityRequisition,
		EntityID:   id,
		Action:     "approve",
		FieldDiffs: statusDiff(cr.Status, fsm.RequisitionStatusApproved),
		ActorID:    approverID,
	}
	if err := s.RequisitionRepo.Approve(ctx, cr, approverID, audit); err != nil {
		return models.CheckRequisition{}, err
	}
	return s.RequisitionRepo.GetRequisitionByID(ctx, id)
}

// Reject moves the requisition to rejected and rolls its
// pending_disbursement invoices back to approved.
func (s *CheckRequisitionService) Reject(ctx context.Context, id, reviewerID int) (models.CheckRequisition, error) {
	cr, err := s.guarded(ctx, id, fsm.RequisitionStatusRejected)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityRequisition,
		EntityID:   id,
		Action:     "reject",
		FieldDiffs: statusDiff(cr.Status, fsm.RequisitionStatusRejected),
		ActorID:    reviewerID,
	}
	if err := s.RequisitionRepo.Reject(ctx, cr, reviewerID, audit); err != nil {
		return models.CheckRequisition{}, err
	}
	return s.RequisitionRepo.GetRequisitionByID(ctx, id)
}

// Reset returns a rejected requisition to pending.
func (s *CheckRequisitionService) Reset(ctx context.Context, id, actorID int) (models.CheckRequisition, error) {
	cr, err := s.guarded(ctx, id, fsm.RequisitionStatusPending)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityRequisition,
		EntityID:   id,
		Action:     "reset",
		FieldDiffs: statusDiff(cr.Status, fsm.RequisitionStatusPending),
		ActorID:    actorID,
	}
	if err := s.RequisitionRepo.Reset(ctx, cr, audit); err != nil {
		return models.CheckRequisition{}, err
	}
	return s.RequisitionRepo.GetRequisitionByID(ctx, id)
}

func (s *CheckRequisitionService) guarded(ctx context.Context, id int, target string) (models.CheckRequisition, error) {
	cr, err := s.RequisitionRepo.GetRequisitionByID(ctx, id)
	if err != nil {
		return models.CheckRequisition{}, err
	}
	if fsm.Terminal(fsm.EntityRequisition, cr.Status) {
		return models.CheckRequisition{}, models.ErrEntityImmutable
	}
	if err := fsm.Transition(fsm.EntityRequisition, cr.Status, target); err != nil {
		return models.CheckRequisition{}, err
	}
	return cr, nil
}

func (s *CheckRequisitionService) GetAuditTrail(ctx context.Context, id int) ([]models.AuditEntry, error) {
	return s.AuditRepo.ListByEntity(ctx, fsm.EntityRequisition, id)
}
