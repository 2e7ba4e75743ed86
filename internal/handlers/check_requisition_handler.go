package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
	"zakupBack/internal/workflow/fsm"
)

type CheckRequisitionHandler struct {
	Service *services.CheckRequisitionService
	Events  *EventsHub
}

type createRequisitionRequest struct {
	InvoiceIDs []int `json:"invoice_ids"`
}

func (h *CheckRequisitionHandler) CreateRequisition(w http.ResponseWriter, r *http.Request) {
	var req createRequisitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if len(req.InvoiceIDs) == 0 {
		http.Error(w, "At least one invoice is required", http.StatusBadRequest)
		return
	}

	actor := actorID(r)
	requisition, err := h.Service.CreateFromInvoices(r.Context(), actor, req.InvoiceIDs)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	h.Events.Publish(fsm.EntityRequisition, requisition.ID, "create", requisition.Status, actor, nil)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requisition)
}

func (h *CheckRequisitionHandler) GetRequisitions(w http.ResponseWriter, r *http.Request) {
	requisitions, err := h.Service.GetRequisitions(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(requisitions)
}

func (h *CheckRequisitionHandler) GetRequisitionByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	requisition, err := h.Service.GetRequisitionByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Check requisition not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(requisition)
}

func (h *CheckRequisitionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve", h.Service.Approve)
}

func (h *CheckRequisitionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject", h.Service.Reject)
}

func (h *CheckRequisitionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reset", h.Service.Reset)
}

func (h *CheckRequisitionHandler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, id, actorID int) (models.CheckRequisition, error)) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	actor := actorID(r)
	requisition, err := fn(r.Context(), id, actor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.Events.Publish(fsm.EntityRequisition, requisition.ID, action, requisition.Status, actor, nil)
	json.NewEncoder(w).Encode(requisition)
}

func (h *CheckRequisitionHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	entries, err := h.Service.GetAuditTrail(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entries)
}
