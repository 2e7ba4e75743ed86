package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"zakupBack/internal/services"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetSummary(r.Context())
	if err != nil {
		log.Printf("GetSummary error: %v", err)
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(summary)
}
