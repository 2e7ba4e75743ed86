package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
)

type VendorHandler struct {
	Service *services.VendorService
}

func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var vendor models.Vendor
	if err := json.NewDecoder(r.Body).Decode(&vendor); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	id, err := h.Service.CreateVendor(r.Context(), vendor)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	vendor.ID = id
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vendor)
}

func (h *VendorHandler) GetVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Service.GetVendors(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(vendors)
}

func (h *VendorHandler) GetVendorByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	vendor, err := h.Service.GetVendorByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Vendor not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(vendor)
}

func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	var vendor models.Vendor
	if err := json.NewDecoder(r.Body).Decode(&vendor); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	vendor.ID = id
	if err := h.Service.UpdateVendor(r.Context(), vendor); err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(vendor)
}

func (h *VendorHandler) ArchiveVendor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	if err := h.Service.ArchiveVendor(r.Context(), id); err != nil {
		writeWorkflowError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
