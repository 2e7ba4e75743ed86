package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
	"zakupBack/internal/workflow/fsm"
)

type DisbursementHandler struct {
	Service *services.DisbursementService
	Events  *EventsHub
}

type createDisbursementRequest struct {
	CheckVoucherNumber string     `json:"check_voucher_number"`
	DateCheckScheduled *time.Time `json:"date_check_scheduled"`
	RequisitionIDs     []int      `json:"requisition_ids"`
}

func (h *DisbursementHandler) CreateDisbursement(w http.ResponseWriter, r *http.Request) {
	var req createDisbursementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if len(req.RequisitionIDs) == 0 {
		http.Error(w, "At least one requisition is required", http.StatusBadRequest)
		return
	}

	scheduled := time.Now()
	if req.DateCheckScheduled != nil {
		scheduled = *req.DateCheckScheduled
	}

	actor := actorID(r)
	disbursement, err := h.Service.CreateFromRequisitions(r.Context(), req.CheckVoucherNumber, scheduled, req.RequisitionIDs, actor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	h.Events.Publish(fsm.EntityDisbursement, disbursement.ID, "create", disbursement.Status, actor, map[string]interface{}{
		"check_voucher_number": disbursement.CheckVoucherNumber,
	})
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(disbursement)
}

func (h *DisbursementHandler) GetDisbursements(w http.ResponseWriter, r *http.Request) {
	disbursements, err := h.Service.GetDisbursements(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(disbursements)
}

func (h *DisbursementHandler) GetDisbursementByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	disbursement, err := h.Service.GetDisbursementByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Disbursement not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(disbursement)
}

func (h *DisbursementHandler) MarkPrinting(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "print", h.Service.MarkPrinting)
}

// Release freezes the check and cascades the paid status down to the
// covered requisitions and invoices.
func (h *DisbursementHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "release", h.Service.Release)
}

func (h *DisbursementHandler) Void(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "void", h.Service.Void)
}

func (h *DisbursementHandler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, id, actorID int) (models.Disbursement, error)) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	actor := actorID(r)
	disbursement, err := fn(r.Context(), id, actor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.Events.Publish(fsm.EntityDisbursement, disbursement.ID, action, disbursement.Status, actor, nil)
	json.NewEncoder(w).Encode(disbursement)
}

func (h *DisbursementHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	entries, err := h.Service.GetAuditTrail(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entries)
}
