package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
	"zakupBack/internal/workflow/fsm"
	"zakupBack/utils"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
	Storage *utils.FileStorage
	Events  *EventsHub
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var invoice models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&invoice); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreateInvoice(r.Context(), invoice, actorID(r))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *InvoiceHandler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	var (
		invoices []models.Invoice
		err      error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		invoices, err = h.Service.GetInvoicesByStatus(r.Context(), status)
	} else {
		invoices, err = h.Service.GetInvoices(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(invoices)
}

func (h *InvoiceHandler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	invoice, err := h.Service.GetInvoiceByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(invoice)
}

func (h *InvoiceHandler) GetInvoicesByPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poID, _ := strconv.Atoi(getParam(r, "id"))
	invoices, err := h.Service.GetInvoicesByPurchaseOrder(r.Context(), poID)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(invoices)
}

func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	var invoice models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&invoice); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	invoice.ID = id
	updated, err := h.Service.UpdateInvoice(r.Context(), invoice, actorID(r))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	if err := h.Service.DeleteInvoice(r.Context(), id, actorID(r)); err != nil {
		writeWorkflowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvoiceHandler) Receive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "receive", h.Service.Receive)
}

func (h *InvoiceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve", h.Service.Approve)
}

func (h *InvoiceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reject", h.Service.Reject)
}

func (h *InvoiceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reset", h.Service.Reset)
}

func (h *InvoiceHandler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, id, actorID int) (models.Invoice, error)) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	actor := actorID(r)
	invoice, err := fn(r.Context(), id, actor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.Events.Publish(fsm.EntityInvoice, invoice.ID, action, invoice.Status, actor, nil)
	json.NewEncoder(w).Encode(invoice)
}

// UploadAttachment stores the invoice document in object storage and
// records its URL on the invoice.
func (h *InvoiceHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))

	if h.Storage == nil {
		http.Error(w, "Document storage is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		http.Error(w, "Document file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), header.Filename)
	url, err := h.Storage.Upload(data, fileName, "invoices", header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("UploadAttachment error: %v", err)
		http.Error(w, "Failed to upload document", http.StatusInternalServerError)
		return
	}

	if err := h.Service.AttachDocument(r.Context(), id, url, actorID(r)); err != nil {
		writeWorkflowError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"attachment_url": url})
}

// MarkOverdue flips every invoice past its due date to overdue. The
// sweeper calls the same service method on a timer, this endpoint exists
// for manual runs.
func (h *InvoiceHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	marked, err := h.Service.MarkOverdue(r.Context(), time.Now())
	if err != nil {
		log.Printf("MarkOverdue error: %v", err)
		http.Error(w, "Overdue sweep failed", http.StatusInternalServerError)
		return
	}
	for _, m := range marked {
		h.Events.Publish(fsm.EntityInvoice, m.ID, "overdue", fsm.InvoiceStatusOverdue, 0, map[string]interface{}{
			"days_overdue": m.DaysOverdue,
		})
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"marked":   len(marked),
		"invoices": marked,
	})
}

func (h *InvoiceHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	entries, err := h.Service.GetAuditTrail(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entries)
}
