package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/auth"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/model"
	"github.com/jigyasumxkkxr/Projects-iit-jammu/internal/store"
)

type ProjectHandler struct {
	projectStore     *store.ProjectStore
	applicationStore *store.ApplicationStore
	logger           *slog.Logger
}

func NewProjectHandler(ps *store.ProjectStore, as *store.ApplicationStore, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectStore:     ps,
		applicationStore: as,
		logger:           logger,
	}
}

// List returns all open projects for the student browse view.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectStore.ListOpen()
	if err != nil {
		h.logger.Error("list open projects", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// Get returns one project. Closed projects stay visible so students can
// still read details of a project they applied to.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectStore.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if project == nil {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"project": project})
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	Stipend     int64    `json:"stipend"`
	Features    []string `json:"features"`
}

func (pr *projectRequest) validate() (time.Time, string) {
	if strings.TrimSpace(pr.Title) == "" {
		return time.Time{}, "Title is required"
	}
	deadline, err := time.Parse(time.RFC3339, pr.Deadline)
	if err != nil {
		return time.Time{}, "Deadline must be an RFC 3339 timestamp"
	}
	return deadline, ""
}

// Create posts a new project owned by the authenticated professor.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	deadline, errMsg := req.validate()
	if errMsg != "" {
		respondMessage(w, http.StatusBadRequest, errMsg)
		return
	}

	project, err := h.projectStore.Create(auth.UserID(r.Context()), strings.TrimSpace(req.Title), req.Description, deadline, req.Stipend, req.Features)
	if err != nil {
		h.logger.Error("create project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Project created", "project": project})
}

// ListMine returns the authenticated professor's projects, open and closed.
func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectStore.ListByProfessor(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list professor projects", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// ownedProject loads the project and checks it belongs to the caller.
// Missing and not-owned are reported identically.
func (h *ProjectHandler) ownedProject(w http.ResponseWriter, r *http.Request) *model.Project {
	project, err := h.projectStore.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return nil
	}
	if project == nil || project.ProfessorID != auth.UserID(r.Context()) {
		respondMessage(w, http.StatusNotFound, notFoundMessage)
		return nil
	}
	return project
}

// Update edits a project the professor owns.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	project := h.ownedProject(w, r)
	if project == nil {
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	deadline, errMsg := req.validate()
	if errMsg != "" {
		respondMessage(w, http.StatusBadRequest, errMsg)
		return
	}

	updated, err := h.projectStore.Update(project.ID, strings.TrimSpace(req.Title), req.Description, deadline, req.Stipend, req.Features)
	if err != nil {
		h.logger.Error("update project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Project updated", "project": updated})
}

// Close stops a project from accepting new applications.
func (h *ProjectHandler) Close(w http.ResponseWriter, r *http.Request) {
	project := h.ownedProject(w, r)
	if project == nil {
		return
	}

	if err := h.projectStore.Close(project.ID); err != nil {
		h.logger.Error("close project", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	respondMessage(w, http.StatusOK, "Project closed")
}

// Applications lists the applications submitted to a project the professor
// owns.
func (h *ProjectHandler) Applications(w http.ResponseWriter, r *http.Request) {
	project := h.ownedProject(w, r)
	if project == nil {
		return
	}

	apps, err := h.applicationStore.ListByProject(project.ID)
	if err != nil {
		h.logger.Error("list project applications", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"applications": apps})
}
