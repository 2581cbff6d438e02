package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/models"
	"github.com/rmarin/portfolio-be/internal/services"
	"github.com/rmarin/portfolio-be/internal/uploads"
)

const projectsCacheKey = "public:projects"

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service services.ProjectServiceProvider
	store   *uploads.Store
	cache   *cache.Cache
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider, store *uploads.Store, c *cache.Cache) *ProjectHandler {
	return &ProjectHandler{service: service, store: store, cache: c}
}

// List returns all projects, newest first. Public.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedData(h.cache, projectsCacheKey, func() (interface{}, error) {
		projects, err := h.service.List()
		if projects == nil {
			projects = []models.Project{}
		}
		return projects, err
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve projects")
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Create adds a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	var input services.NewProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	project, err := h.service.Add(claims.ProfileID, input)
	if err != nil {
		log.Error().Err(err).Str("title", input.Title).Msg("Failed to add project")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(projectsCacheKey)
	respondJSON(w, http.StatusCreated, project)
}

// Update merges the provided fields into a project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var patch models.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	project, err := h.service.Update(id, claims.ProfileID, patch)
	if err != nil {
		log.Warn().Err(err).Str("project_id", id).Msg("Failed to update project")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(projectsCacheKey)
	respondJSON(w, http.StatusOK, project)
}

// Delete removes a project.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(id, claims.ProfileID); err != nil {
		log.Warn().Err(err).Str("project_id", id).Msg("Failed to delete project")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(projectsCacheKey)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Project removed"})
}

// UploadImage accepts a multipart project image and returns its URL. The
// URL is attached to a project by a subsequent create or update call.
func (h *ProjectHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.store.Save(uploads.KindProjectImage, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Project image upload rejected")
		writeServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}
