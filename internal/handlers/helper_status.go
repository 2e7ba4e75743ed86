package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

// writeWorkflowError translates service layer failures into client-facing
// responses. Rejected status transitions come back as 422 with the refused
// pair so the client can refresh its view of the document.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var invalid *fsm.InvalidTransitionError
	if errors.As(err, &invalid) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error":          "status transition not allowed",
			"current_status": invalid.From,
			"target_status":  invalid.To,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrEntityImmutable):
		http.Error(w, err.Error(), http.StatusConflict)
	// a raced status update: the row changed between the read and the write
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "Record status changed, refresh and retry", http.StatusConflict)
	case errors.Is(err, models.ErrCurrencyMismatch),
		errors.Is(err, models.ErrInvalidVoucherNumber):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvoiceNotFound),
		errors.Is(err, models.ErrRequisitionNotFound),
		errors.Is(err, models.ErrDisbursementNotFound),
		errors.Is(err, models.ErrPurchaseOrderNotFound),
		errors.Is(err, models.ErrVendorNotFound),
		errors.Is(err, models.ErrProjectNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case isForeignKeyConstraintError(err):
		http.Error(w, "Referenced record does not exist", http.StatusBadRequest)
	default:
		log.Printf("workflow error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
