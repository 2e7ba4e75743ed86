package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
)

type PurchaseOrderHandler struct {
	Service *services.PurchaseOrderService
}

func (h *PurchaseOrderHandler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var po models.PurchaseOrder
	if err := json.NewDecoder(r.Body).Decode(&po); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreatePurchaseOrder(r.Context(), po)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *PurchaseOrderHandler) GetPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.GetPurchaseOrders(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(orders)
}

func (h *PurchaseOrderHandler) GetPurchaseOrderByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	po, err := h.Service.GetPurchaseOrderByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Purchase order not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(po)
}

func (h *PurchaseOrderHandler) UpdatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	var po models.PurchaseOrder
	if err := json.NewDecoder(r.Body).Decode(&po); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	po.ID = id
	if err := h.Service.UpdatePurchaseOrder(r.Context(), po); err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(po)
}

// VerifyFinancials reports the drift between the cached sums and the sums
// recalculated from the child invoices, without touching the stored row.
func (h *PurchaseOrderHandler) VerifyFinancials(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	discrepancies, err := h.Service.VerifyFinancials(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"purchase_order_id": id,
		"in_sync":           len(discrepancies) == 0,
		"discrepancies":     discrepancies,
	})
}

// SyncFinancials recalculates and persists the cached sums for one order.
func (h *PurchaseOrderHandler) SyncFinancials(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	snapshot, err := h.Service.SyncFinancials(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(snapshot)
}

// RunReconciliation sweeps every purchase order. With ?repair=true the
// drifted rows are rewritten, otherwise the sweep only reports.
func (h *PurchaseOrderHandler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	repair := r.URL.Query().Get("repair") == "true"
	report, err := h.Service.RunReconciliation(r.Context(), repair)
	if err != nil {
		log.Printf("RunReconciliation error: %v", err)
		http.Error(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(report)
}
