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
)

const publicSkillsCacheKey = "public:skills"

// SkillHandler handles HTTP requests for skills.
type SkillHandler struct {
	service services.SkillServiceProvider
	cache   *cache.Cache
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(service services.SkillServiceProvider, c *cache.Cache) *SkillHandler {
	return &SkillHandler{service: service, cache: c}
}

// List returns the authenticated caller's skills.
func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	skills, err := h.service.List(claims.ProfileID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve skills")
		writeServiceError(w, err)
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	respondJSON(w, http.StatusOK, skills)
}

// ListPublic returns every skill for anonymous display.
func (h *SkillHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	data, err := getCachedData(h.cache, publicSkillsCacheKey, func() (interface{}, error) {
		skills, err := h.service.ListPublic()
		if skills == nil {
			skills = []models.Skill{}
		}
		return skills, err
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve public skills")
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// CreateSkillPayload is the expected JSON body for adding a skill.
type CreateSkillPayload struct {
	Name  string `json:"name"`
	Level *int   `json:"level"`
}

// Create adds a new skill owned by the caller.
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	var payload CreateSkillPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	skill, err := h.service.Add(claims.ProfileID, payload.Name, payload.Level)
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to add skill")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(publicSkillsCacheKey)
	respondJSON(w, http.StatusCreated, skill)
}

// Update merges the provided fields into one of the caller's skills.
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var patch models.SkillPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	skill, err := h.service.Update(id, claims.ProfileID, patch)
	if err != nil {
		log.Warn().Err(err).Str("skill_id", id).Msg("Failed to update skill")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(publicSkillsCacheKey)
	respondJSON(w, http.StatusOK, skill)
}

// Delete removes one of the caller's skills.
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(id, claims.ProfileID); err != nil {
		log.Warn().Err(err).Str("skill_id", id).Msg("Failed to delete skill")
		writeServiceError(w, err)
		return
	}

	h.cache.Delete(publicSkillsCacheKey)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Skill removed"})
}
