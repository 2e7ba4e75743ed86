package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"zakupBack/internal/models"
	"zakupBack/internal/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	id, err := h.Service.CreateProject(r.Context(), project)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	project.ID = id
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.GetProjects(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(projects)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	project, err := h.Service.GetProjectByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(getParam(r, "id"))
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	project.ID = id
	if err := h.Service.UpdateProject(r.Context(), project); err != nil {
		writeWorkflowError(w, err)
		return
	}
	json.NewEncoder(w).Encode(project)
}
