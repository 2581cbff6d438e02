package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/models"
	"github.com/rmarin/portfolio-be/internal/services"
)

// ContactHandler handles HTTP requests for the contact inbox.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// SubmitPayload is the expected JSON body for a contact submission.
type SubmitPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit stores a message from the public contact form.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.service.Submit(payload.Name, payload.Email, payload.Subject, payload.Message); err != nil {
		log.Error().Err(err).Msg("Failed to submit contact message")
		writeServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Message sent successfully!"})
}

// List returns all contact messages, newest first.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}

	messages, err := h.service.List(claims.ProfileID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve contact messages")
		writeServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}

// UpdateStatusPayload is the expected JSON body for a status change.
type UpdateStatusPayload struct {
	Status string `json:"status"`
}

// UpdateStatus moves a message to another status within the fixed enum.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve identity from token", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var payload UpdateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.service.UpdateStatus(id, claims.ProfileID, payload.Status)
	if err != nil {
		log.Warn().Err(err).Str("contact_id", id).Str("status", payload.Status).Msg("Failed to update contact status")
		writeServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msg)
}
