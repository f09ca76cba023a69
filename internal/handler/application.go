package handler

import (
	"log/slog"
	"net/http"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/auth"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/store"
)

type ApplicationHandler struct {
	applicationStore *store.ApplicationStore
	projectStore     *store.ProjectStore
	logger           *slog.Logger
}

func NewApplicationHandler(as *store.ApplicationStore, ps *store.ProjectStore, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applicationStore: as,
		projectStore:     ps,
		logger:           logger,
	}
}

type applyRequest struct {
	ProjectID string `json:"projectId"`
}

// Create submits an application from the authenticated student to an open
// project. One application per (project, student).
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProjectID == "" {
		respondMessage(w, http.StatusBadRequest, "Project ID is required")
		return
	}

	project, err := h.projectStore.GetByID(req.ProjectID)
	if err != nil {
		h.logger.Error("apply project lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if project == nil {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if project.Closed {
		respondMessage(w, http.StatusConflict, "Project is closed for applications")
		return
	}

	studentID := auth.UserID(r.Context())
	existing, err := h.applicationStore.GetByProjectAndStudent(project.ID, studentID)
	if err != nil {
		h.logger.Error("apply duplicate check", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if existing != nil {
		respondMessage(w, http.StatusConflict, "You have already applied to this project")
		return
	}

	application, err := h.applicationStore.Create(project.ID, studentID)
	if err != nil {
		h.logger.Error("create application", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Application submitted", "application": application})
}

// List returns the authenticated student's applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applicationStore.ListByStudent(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list applications", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// Get returns one application with its project attached. A valid student
// credential is necessary but not sufficient: the application must belong
// to the caller, and a missing application is indistinguishable from
// someone else's.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondMessage(w, http.StatusBadRequest, "Application ID is required")
		return
	}

	application, err := h.applicationStore.GetByID(id)
	if err != nil {
		h.logger.Error("get application", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if application == nil || application.StudentID != auth.UserID(r.Context()) {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return
	}

	project, err := h.projectStore.GetByID(application.ProjectID)
	if err != nil {
		h.logger.Error("get application project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	application.Project = project

	respondJSON(w, http.StatusOK, map[string]any{
		"message":     "Application fetched successfully",
		"application": application,
	})
}

type decisionRequest struct {
	Status string `json:"status"`
}

// Decide lets the professor who owns the project accept or reject an
// application. Ownership failures use the merged not-found response.
func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != model.ApplicationAccepted && req.Status != model.ApplicationRejected {
		respondMessage(w, http.StatusBadRequest, "Status must be accepted or rejected")
		return
	}

	application, err := h.applicationStore.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("decide application lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if application == nil {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return
	}

	project, err := h.projectStore.GetByID(application.ProjectID)
	if err != nil {
		h.logger.Error("decide project lookup", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if project == nil || project.ProfessorID != auth.UserID(r.Context()) {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return
	}

	updated, err := h.applicationStore.UpdateStatus(application.ID, req.Status)
	if err != nil {
		h.logger.Error("update application status", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Application updated", "application": updated})
}
