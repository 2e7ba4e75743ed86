package services

import (
	"context"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
	"zakupBack/internal/workflow/fsm"
)

type DisbursementService struct {
	DisbursementRepo *repositories.DisbursementRepository
	AuditRepo        *repositories.AuditRepository
}

// CreateFromRequisitions schedules a check covering the given approved
// requisitions. The voucher number must carry a valid Luhn check digit;
// when empty one is generated from the current timestamp sequence.
func (s *DisbursementService) CreateFromRequisitions(ctx context.Context, voucherNumber string, scheduled time.Time, requisitionIDs []int, actorID int) (models.Disbursement, error) {
	if voucherNumber == "" {
		voucherNumber = GenerateVoucherNumber(int(time.Now().Unix() % 1_000_000_000))
	} else if err := ValidateVoucherNumber(voucherNumber); err != nil {
		return models.Disbursement{}, err
	}

	d := models.Disbursement{
		CheckVoucherNumber: voucherNumber,
		DateCheckScheduled: &scheduled,
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityDisbursement,
		Action:     "create",
		FieldDiffs: diffJSON(map[string]models.FieldDiff{
			"status":               {Old: nil, New: fsm.DisbursementStatusScheduled},
			"check_voucher_number": {Old: nil, New: voucherNumber},
			"check_requisitions":   {Old: nil, New: requisitionIDs},
		}),
		ActorID: actorID,
	}
	id, err := s.DisbursementRepo.CreateWithRequisitions(ctx, d, requisitionIDs, audit)
	if err != nil {
		return models.Disbursement{}, err
	}
	return s.DisbursementRepo.GetDisbursementByID(ctx, id)
}

func (s *DisbursementService) GetDisbursementByID(ctx context.Context, id int) (models.Disbursement, error) {
	return s.DisbursementRepo.GetDisbursementByID(ctx, id)
}

func (s *DisbursementService) GetDisbursements(ctx context.Context) ([]models.Disbursement, error) {
	return s.DisbursementRepo.GetDisbursements(ctx)
}

// MarkPrinting stamps the printing date: scheduled -> printing.
func (s *DisbursementService) MarkPrinting(ctx context.Context, id, actorID int) (models.Disbursement, error) {
	d, err := s.guarded(ctx, id, fsm.DisbursementStatusPrinting)
	if err != nil {
		return models.Disbursement{}, err
	}
	now := time.Now()
	audit := models.AuditEntry{
		EntityType: fsm.EntityDisbursement,
		EntityID:   id,
		Action:     "print",
		FieldDiffs: statusDiff(d.Status, fsm.DisbursementStatusPrinting),
		ActorID:    actorID,
	}
	if err := s.DisbursementRepo.MarkPrinting(ctx, d, now, audit); err != nil {
		return models.Disbursement{}, err
	}
	return s.DisbursementRepo.GetDisbursementByID(ctx, id)
}

// Release hands the check to the vendor. Terminal: the record freezes, the
// linked requisitions become disbursed and their invoices paid.
func (s *DisbursementService) Release(ctx context.Context, id, actorID int) (models.Disbursement, error) {
	d, err := s.guarded(ctx, id, fsm.DisbursementStatusReleased)
	if err != nil {
		return models.Disbursement{}, err
	}
	now := time.Now()
	audit := models.AuditEntry{
		EntityType: fsm.EntityDisbursement,
		EntityID:   id,
		Action:     "release",
		FieldDiffs: statusDiff(d.Status, fsm.DisbursementStatusReleased),
		ActorID:    actorID,
	}
	if err := s.DisbursementRepo.Release(ctx, d, now, audit); err != nil {
		return models.Disbursement{}, err
	}
	return s.DisbursementRepo.GetDisbursementByID(ctx, id)
}

// Void cancels an unreleased check run and frees its requisitions.
func (s *DisbursementService) Void(ctx context.Context, id, actorID int) (models.Disbursement, error) {
	d, err := s.guarded(ctx, id, fsm.DisbursementStatusVoided)
	if err != nil {
		return models.Disbursement{}, err
	}
	audit := models.AuditEntry{
		EntityType: fsm.EntityDisbursement,
		EntityID:   id,
		Action:     "void",
		FieldDiffs: statusDiff(d.Status, fsm.DisbursementStatusVoided),
		ActorID:    actorID,
	}
	if err := s.DisbursementRepo.Void(ctx, d, audit); err != nil {
		return models.Disbursement{}, err
	}
	return s.DisbursementRepo.GetDisbursementByID(ctx, id)
}

func (s *DisbursementService) guarded(ctx context.Context, id int, target string) (models.Disbursement, error) {
	d, err := s.DisbursementRepo.GetDisbursementByID(ctx, id)
	if err != nil {
		return models.Disbursement{}, err
	}
	if d.Released() {
		return models.Disbursement{}, models.ErrEntityImmutable
	}
	if err := fsm.Transition(fsm.EntityDisbursement, d.Status, target); err != nil {
		return models.Disbursement{}, err
	}
	return d, nil
}

func (s *DisbursementService) GetAuditTrail(ctx context.Context, id int) ([]models.AuditEntry, error) {
	return s.AuditRepo.ListByEntity(ctx, fsm.EntityDisbursement, id)
}
