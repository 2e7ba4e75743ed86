package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"zakupBack/internal/models"
	"zakupBack/internal/workflow/fsm"
)

func TestWriteWorkflowError(t *testing.T) {
	t.Run("invalid transition carries the refused pair", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, &fsm.InvalidTransitionError{
			Entity: fsm.EntityInvoice,
			From:   fsm.InvoiceStatusPending,
			To:     fsm.InvoiceStatusPaid,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected %d, got %d", http.StatusUnprocessableEntity, rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["current_status"] != fsm.InvoiceStatusPending || body["target_status"] != fsm.InvoiceStatusPaid {
			t.Fatalf("body does not name the refused pair: %v", body)
		}
	})

	t.Run("immutable entity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, models.ErrEntityImmutable)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected %d, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("raced status update maps to conflict", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, sql.ErrNoRows)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected %d, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("currency mismatch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, models.ErrCurrencyMismatch)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, models.ErrInvoiceNotFound)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("defaults to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeWorkflowError(rec, errors.New("connection reset"))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected %d, got %d", http.StatusInternalServerError, rec.Code)
		}
	})
}
